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

package router

import (
	"time"

	"github.com/wirekit/router/telemetry"
)

// RouterConfig holds the process-wide defaults for dispatch and batching.
type RouterConfig struct {
	// ValidateOutputDefault is the process-wide fallback for output
	// validation, applied when both a per-call CallOption and the
	// Definition's own Meta.ValidateOutput leave it unset.
	ValidateOutputDefault bool

	// IncludeExceptionDetails gates whether a recovered handler panic's
	// message and stack trace are attached to the resulting InternalError's
	// Details. Off by default: InternalError never leaks internals unless a
	// deployment opts in.
	IncludeExceptionDetails bool

	// BatchCallTimeout bounds each individual call made from within
	// Router.Batch; zero disables the bound. Call, invoked directly, is
	// never timed out by the core — only Batch imposes this.
	BatchCallTimeout time.Duration

	// BatchMaxSize is the largest batch Router.Batch accepts before
	// rejecting it with a single BatchTooLarge result.
	BatchMaxSize int

	// BatchConcurrency bounds how many batch entries run concurrently;
	// <=1 runs them sequentially.
	BatchConcurrency int

	// SuggestionLimit bounds how many NotFound suggestions are attached.
	SuggestionLimit int

	// SuggestionThreshold is the Jaro similarity score (0..1) a candidate
	// path must exceed to be suggested.
	SuggestionThreshold float64

	Sink telemetry.Sink
}

func defaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		ValidateOutputDefault:   true,
		IncludeExceptionDetails: false,
		BatchCallTimeout:        30 * time.Second,
		BatchMaxSize:            50,
		BatchConcurrency:        10,
		SuggestionLimit:         3,
		SuggestionThreshold:     0.7,
		Sink:                    telemetry.Noop(),
	}
}

// Option mutates a RouterConfig at build time.
type Option func(*RouterConfig)

// WithValidateOutputDefault sets the process-wide default for output
// validation when neither a per-call override nor a procedure's own
// Meta.ValidateOutput is set.
func WithValidateOutputDefault(v bool) Option {
	return func(c *RouterConfig) { c.ValidateOutputDefault = v }
}

// WithIncludeExceptionDetails toggles whether a recovered panic's message
// and stack trace are attached to the InternalError Details it produces.
func WithIncludeExceptionDetails(v bool) Option {
	return func(c *RouterConfig) { c.IncludeExceptionDetails = v }
}

// WithBatchCallTimeout bounds each individual call made from within
// Router.Batch. It has no effect on Call invoked directly.
func WithBatchCallTimeout(d time.Duration) Option {
	return func(c *RouterConfig) { c.BatchCallTimeout = d }
}

// WithoutBatchCallTimeout disables the per-call timeout Batch would
// otherwise impose, undoing WithBatchCallTimeout.
func WithoutBatchCallTimeout() Option {
	return func(c *RouterConfig) { c.BatchCallTimeout = 0 }
}

// WithBatchLimits sets the maximum batch size and the bounded-concurrency
// fan-out width Router.Batch uses.
func WithBatchLimits(maxSize, concurrency int) Option {
	return func(c *RouterConfig) {
		c.BatchMaxSize = maxSize
		c.BatchConcurrency = concurrency
	}
}

// WithSuggestions configures NotFound suggestion ranking.
func WithSuggestions(limit int, threshold float64) Option {
	return func(c *RouterConfig) {
		c.SuggestionLimit = limit
		c.SuggestionThreshold = threshold
	}
}

// WithoutSuggestions disables NotFound suggestions entirely.
func WithoutSuggestions() Option {
	return func(c *RouterConfig) { c.SuggestionLimit = 0 }
}

// WithTelemetrySink installs the Sink every build/dispatch/executor event
// is reported to. The default is telemetry.Noop().
func WithTelemetrySink(sink telemetry.Sink) Option {
	return func(c *RouterConfig) {
		if sink != nil {
			c.Sink = sink
		}
	}
}
