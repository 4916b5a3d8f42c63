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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestOtelSink_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	sink, err := NewOtelSink(mp, noop.NewTracerProvider())
	require.NoError(t, err)

	sink.OnEvent(Event{Kind: ProcedureStart, Path: "users.get"})
	sink.OnEvent(Event{Kind: ProcedureStop, Path: "users.get", Duration: 5 * time.Millisecond})
	sink.OnEvent(Event{Kind: ProcedureException, Path: "users.missing"})

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &data))

	require.Len(t, data.ScopeMetrics, 1)
	names := make(map[string]bool)
	for _, m := range data.ScopeMetrics[0].Metrics {
		names[m.Name] = true
	}
	assert.True(t, names["router.calls"])
	assert.True(t, names["router.errors"])
	assert.True(t, names["router.call.duration"])
}

func TestOtelSink_NilProvidersFallBackToGlobal(t *testing.T) {
	sink, err := NewOtelSink(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, sink)

	// Must not panic against the global no-op providers.
	sink.OnEvent(Event{Kind: ProcedureStart, Path: "users.get"})
}
