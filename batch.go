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
	"context"
	"time"

	rerrors "github.com/wirekit/router/errors"
	"github.com/wirekit/router/telemetry"
	"golang.org/x/sync/errgroup"
)

// BatchCall is one request within a Batch: a path and its input. Its index
// in the calls slice is its position, so BatchResult can report results in
// request order regardless of completion order.
type BatchCall struct {
	Path  string
	Input any
}

// BatchResult is one Batch entry's outcome, positionally aligned with the
// BatchCall that produced it.
type BatchResult struct {
	Value any
	Err   *rerrors.Error
}

// Batch runs every call concurrently (bounded by RouterConfig.BatchConcurrency)
// against a shared Context, each bounded by RouterConfig.BatchCallTimeout,
// and returns one BatchResult per call in the same order as calls. A single
// entry's failure or timeout never aborts the others — Batch always returns
// exactly len(calls) results.
//
// If len(calls) exceeds RouterConfig.BatchMaxSize, Batch returns the single-
// element result list [{Err: BatchTooLarge}], matching the shape every other
// rejection takes: a result to report, not a distinct return path.
func (r *Router) Batch(ctx context.Context, rc *Context, calls []BatchCall, opts ...CallOption) []BatchResult {
	start := time.Now()
	sink := r.cfg.Sink
	paths := make([]string, len(calls))
	for i, c := range calls {
		paths[i] = c.Path
	}
	sink.OnEvent(telemetry.Event{Kind: telemetry.RouterBatchStart, Fields: map[string]any{"paths": paths}})

	if r.cfg.BatchMaxSize > 0 && len(calls) > r.cfg.BatchMaxSize {
		rerr := rerrors.Newf(rerrors.BatchTooLarge,
			"batch of %d entries exceeds the configured maximum of %d", len(calls), r.cfg.BatchMaxSize)
		sink.OnEvent(telemetry.Event{
			Kind: telemetry.RouterBatchStop, Duration: time.Since(start),
			Fields: map[string]any{"success_count": 0, "error_count": 1},
		})
		return []BatchResult{{Err: rerr}}
	}

	results := make([]BatchResult, len(calls))

	concurrency := r.cfg.BatchConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	callTimeout := r.cfg.BatchCallTimeout

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, c := range calls {
		i, c := i, c
		g.Go(func() error {
			results[i] = r.callWithTimeout(gctx, rc, c, callTimeout, opts)
			return nil
		})
	}
	// errgroup.Wait's error is always nil here: each goroutine reports its
	// failure into results[i] rather than returning an error, so one
	// entry's error never cancels the rest via gctx.
	_ = g.Wait()

	successCount, errorCount := 0, 0
	for _, res := range results {
		if res.Err != nil {
			errorCount++
		} else {
			successCount++
		}
	}
	sink.OnEvent(telemetry.Event{
		Kind: telemetry.RouterBatchStop, Duration: time.Since(start),
		Fields: map[string]any{"success_count": successCount, "error_count": errorCount},
	})
	return results
}

// callWithTimeout runs one Batch entry's Call, reporting a Timeout error the
// moment timeout elapses rather than waiting for a handler that ignores ctx
// to return on its own. The call's own goroutine keeps running after a
// reported timeout; well-behaved handlers are expected to observe ctx and
// exit promptly.
func (r *Router) callWithTimeout(ctx context.Context, rc *Context, c BatchCall, timeout time.Duration, opts []CallOption) BatchResult {
	if timeout <= 0 {
		val, err := r.Call(ctx, rc, c.Path, c.Input, opts...)
		return BatchResult{Value: val, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultCh := make(chan BatchResult, 1)
	go func() {
		val, err := r.Call(callCtx, rc, c.Path, c.Input, opts...)
		resultCh <- BatchResult{Value: val, Err: err}
	}()

	select {
	case res := <-resultCh:
		return res
	case <-callCtx.Done():
		return BatchResult{Err: rerrors.New(rerrors.Timeout, "call exceeded the batch per-call deadline").WithPath(c.Path)}
	}
}
