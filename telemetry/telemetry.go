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

// Package telemetry defines the named-event Sink contract: a small,
// transport-agnostic event taxonomy for procedure-call
// lifecycle hooks (build, dispatch, batch), reported through a pluggable
// Sink rather than baked into a single logging or metrics backend.
//
// Telemetry is optional: a Router with no Sink installed runs identically,
// just without the events. Sinks must be safe for concurrent use — the
// executor may call them from many goroutines at once (batch fan-out).
package telemetry

import "time"

// Kind names one event in the procedure-call lifecycle. Values are
// wire-stable: a collector keys dashboards and alerts off these strings, so
// renaming one is a breaking change.
type Kind string

const (
	// BuildRouteRegistered fires once per Entry during Router build.
	BuildRouteRegistered Kind = "build.route_registered"
	// BuildFailed fires when a RouterBuilder.Build call fails validation.
	BuildFailed Kind = "build.failed"

	// ProcedureStart fires when the executor begins running a resolved
	// Entry's pipeline. Fields: procedure, kind, unit.
	ProcedureStart Kind = "procedure.start"
	// ProcedureStop fires when the executor's pipeline completes
	// successfully. Fields: procedure, kind, unit.
	ProcedureStop Kind = "procedure.stop"
	// ProcedureException fires when the executor's pipeline ends in an
	// error — validation rejection, middleware error, handler error, a
	// recovered panic, or output-validation failure. Fields: procedure,
	// kind, unit, error_kind, reason.
	ProcedureException Kind = "procedure.exception"

	// RouterLookupStart fires when Router.Call begins resolving a path.
	RouterLookupStart Kind = "router.lookup.start"
	// RouterLookupStop fires when Router.Call finishes resolving a path,
	// whether or not an Entry was found. Fields: path, found.
	RouterLookupStop Kind = "router.lookup.stop"
	// RouterAliasResolved fires when a path resolves via an alias hop.
	// Fields: from, to, deprecated.
	RouterAliasResolved Kind = "router.alias.resolved"

	// RouterBatchStart fires once per Router.Batch invocation. Fields:
	// paths.
	RouterBatchStart Kind = "router.batch.start"
	// RouterBatchStop fires once per Router.Batch invocation, after every
	// entry completes (or immediately, for the BatchTooLarge rejection).
	// Fields: success_count, error_count.
	//
	// None of the router.* events carries a field identifying which Router
	// emitted it.
	RouterBatchStop Kind = "router.batch.stop"
)

// Event is one point-in-time occurrence a Sink receives. Fields is
// event-kind-specific structured context (e.g. "found", "error_kind",
// "paths") — Sinks should treat unknown keys as opaque.
type Event struct {
	Kind     Kind
	Path     string
	Duration time.Duration
	Fields   map[string]any
}

// Sink receives telemetry Events. Implementations may log, emit metrics,
// create trace spans, or any combination — or drop events entirely.
type Sink interface {
	OnEvent(Event)
}

// SinkFunc adapts a bare function into a Sink.
type SinkFunc func(Event)

// OnEvent invokes the wrapped function.
func (f SinkFunc) OnEvent(e Event) { f(e) }

type noopSink struct{}

func (noopSink) OnEvent(Event) {}

// Noop returns a Sink that discards every Event, the default installed by
// RouterConfig when no Sink is configured.
func Noop() Sink { return noopSink{} }

// Multi fans one Event out to every given Sink, in order. Useful for
// combining, e.g., an OtelSink with a SlogSink.
func Multi(sinks ...Sink) Sink {
	cp := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			cp = append(cp, s)
		}
	}
	return multiSink(cp)
}

type multiSink []Sink

func (m multiSink) OnEvent(e Event) {
	for _, s := range m {
		s.OnEvent(e)
	}
}
