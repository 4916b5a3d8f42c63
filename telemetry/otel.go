// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OtelSink reports Events as OpenTelemetry metrics: a calls/errors counter
// pair and a duration histogram. It records no spans or span events (see
// OnEvent).
type OtelSink struct {
	tracer trace.Tracer

	calls    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewOtelSink builds an OtelSink from a MeterProvider and TracerProvider.
// Passing nil for either uses the global provider, matching otel's own
// "nil means use otel.Get*Provider()" convention.
func NewOtelSink(mp metric.MeterProvider, tp trace.TracerProvider) (*OtelSink, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	meter := mp.Meter("github.com/wirekit/router")

	calls, err := meter.Int64Counter("router.calls",
		metric.WithDescription("Number of procedure calls dispatched"))
	if err != nil {
		return nil, fmt.Errorf("router/telemetry: build calls counter: %w", err)
	}
	errs, err := meter.Int64Counter("router.errors",
		metric.WithDescription("Number of procedure calls that returned an error"))
	if err != nil {
		return nil, fmt.Errorf("router/telemetry: build errors counter: %w", err)
	}
	dur, err := meter.Float64Histogram("router.call.duration",
		metric.WithDescription("Procedure call duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("router/telemetry: build duration histogram: %w", err)
	}

	return &OtelSink{
		tracer:   tp.Tracer("github.com/wirekit/router"),
		calls:    calls,
		errors:   errs,
		duration: dur,
	}, nil
}

// OnEvent records metrics for call-lifecycle events. It adds a span event
// only to a recording span found on its context, and that context is
// context.Background(), which carries no span, so no span events are
// recorded.
func (o *OtelSink) OnEvent(e Event) {
	ctx := context.Background()
	attrs := []attribute.KeyValue{attribute.String("path", e.Path)}

	switch e.Kind {
	case ProcedureStart:
		o.calls.Add(ctx, 1, metric.WithAttributes(attrs...))
	case ProcedureException:
		o.errors.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("kind", string(e.Kind)))...))
	}
	if e.Duration > 0 {
		o.duration.Record(ctx, e.Duration.Seconds(), metric.WithAttributes(attrs...))
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		spanAttrs := make([]attribute.KeyValue, 0, len(e.Fields))
		for k, v := range e.Fields {
			spanAttrs = append(spanAttrs, attribute.String(k, fmt.Sprint(v)))
		}
		span.AddEvent(string(e.Kind), trace.WithAttributes(spanAttrs...))
	}
}
