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
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	rerrors "github.com/wirekit/router/errors"
	"github.com/wirekit/router/telemetry"
)

// execute runs the nine-step pipeline for a single resolved Entry: tag the
// Context, run BeforeHooks, parse input, compose the middleware chain around
// the handler (trapping a handler panic exactly once), validate output, run
// AfterHooks, and report telemetry at every step that can fail or
// short-circuit.
func (r *Router) execute(ctx context.Context, rc *Context, e *Entry, rawInput any, opts *callOptions) (any, *rerrors.Error) {
	start := time.Now()
	sink := r.cfg.Sink
	path := e.Path
	kind := e.Kind()

	// Step 1: tag the Context with the resolved procedure identity and
	// announce the run.
	rc = rc.withProcedure(path, kind)
	baseFields := map[string]any{"procedure": path, "kind": kind.String(), "unit": e.SourceUnit}
	sink.OnEvent(telemetry.Event{Kind: telemetry.ProcedureStart, Path: path, Fields: baseFields})

	fail := func(rerr *rerrors.Error) (any, *rerrors.Error) {
		fields := map[string]any{
			"procedure": path, "kind": kind.String(), "unit": e.SourceUnit,
			"error_kind": string(rerr.Code), "reason": rerr.Message,
		}
		sink.OnEvent(telemetry.Event{Kind: telemetry.ProcedureException, Path: path, Duration: time.Since(start), Fields: fields})
		return nil, rerr
	}

	// Step 3: BeforeHooks run sequentially; the first error short-circuits
	// the rest of the pipeline.
	for _, hook := range opts.before {
		var herr *rerrors.Error
		rc, herr = hook(ctx, rc, rawInput)
		if herr != nil {
			return fail(herr.WithPath(path))
		}
	}

	// Step 4: parse and validate input against the declared schema, if any.
	input := rawInput
	if e.Def.Input != nil {
		parsed, verrs := e.Def.Input.Parse(ctx, rawInput)
		if len(verrs) > 0 {
			fields := make([]rerrors.FieldError, len(verrs))
			for i, v := range verrs {
				fields[i] = rerrors.FieldError{Path: joinPath(v.Path), Message: v.Message}
			}
			return fail(rerrors.ValidationFailed(fields).WithPath(path))
		}
		input = parsed
	}

	// Resolve the handler — explicit on the Definition, or implicit via the
	// declaring Registry, looked up lazily so it can be defined textually
	// after the Definition.
	handler := e.Def.Handler
	if handler == nil {
		resolved, ok := e.Registry.resolveImplicit(e.Def.Name)
		if !ok {
			return fail(rerrors.InternalError("no handler resolved for procedure").WithPath(path))
		}
		handler = resolved
	}

	// Step 5-6: compose and run the middleware chain, index-threaded in
	// place of true continuation-passing, terminating in the handler at
	// index len(e.Middleware). The handler invocation alone is wrapped in a
	// panic trap — middleware panics are not recovered here and propagate
	// to the transport, matching recovery's own convention of recovering
	// everything downstream of where it's mounted.
	chain := e.Middleware
	var run func(i int, ctx context.Context, rc *Context) (*Context, *rerrors.Error)
	run = func(i int, ctx context.Context, rc *Context) (out *Context, rerr *rerrors.Error) {
		if i >= len(chain) {
			defer func() {
				if p := recover(); p != nil {
					rerr = r.recoverHandlerPanic(rc, p)
					out = rc
				}
			}()
			res, herr := handler(ctx, rc, input)
			if herr != nil {
				return rc, herr
			}
			return rc.WithAssign(handlerResultKey, res), nil
		}
		link := chain[i]
		next := func(ctx context.Context, rc *Context) (*Context, *rerrors.Error) {
			return run(i+1, ctx, rc)
		}
		return link.module.Call(ctx, rc, link.config, next)
	}

	finalCtx, herr := run(0, ctx, rc)
	if herr != nil {
		return fail(herr)
	}

	result, _ := finalCtx.Assign(handlerResultKey)

	// Step 7: validate output, honouring the three-level precedence: a
	// per-call override beats the Definition's own Meta.ValidateOutput,
	// which beats the RouterConfig process-wide default.
	validateOutput := r.cfg.ValidateOutputDefault
	if e.Def.Meta.ValidateOutput != nil {
		validateOutput = *e.Def.Meta.ValidateOutput
	}
	if opts.validateOutput != nil {
		validateOutput = *opts.validateOutput
	}
	if validateOutput && e.Def.Output != nil {
		_, verrs := e.Def.Output.Parse(ctx, result)
		if len(verrs) > 0 {
			slog.Error("response validation failed", "procedure", path, "errors", verrs)
			return fail(rerrors.InternalError("Response validation failed").WithPath(path))
		}
	}

	// Step 8: AfterHooks run sequentially over the validated result; the
	// first error short-circuits the remaining hooks.
	for _, hook := range opts.after {
		var herr *rerrors.Error
		result, herr = hook(ctx, rc, result)
		if herr != nil {
			return fail(herr.WithPath(path))
		}
	}

	// Step 9: report success.
	sink.OnEvent(telemetry.Event{Kind: telemetry.ProcedureStop, Path: path, Duration: time.Since(start), Fields: baseFields})
	return result, nil
}

// recoverHandlerPanic converts a recovered handler panic into an Internal
// *errors.Error, logging it with its stack through slog.Default() and
// attaching the panic value and stack trace to Details only when the
// Router was built with IncludeExceptionDetails — matching the
// recovery middleware's own gating for panics caught further up the chain.
func (r *Router) recoverHandlerPanic(rc *Context, p any) *rerrors.Error {
	stack := string(debug.Stack())
	slog.Error("recovered handler panic", "procedure", rc.ProcedurePath, "panic", p, "stack", stack)
	rerr := rerrors.InternalError("internal error").WithPath(rc.ProcedurePath)
	if r.cfg.IncludeExceptionDetails {
		fields := map[string]any{"panic": fmt.Sprintf("%v", p), "stack": stack}
		rerr = rerr.WithDetails(fields)
	}
	return rerr
}

// handlerResultKey is the Context.Assigns key the innermost chain link and
// any short-circuiting middleware (via SetResult) use to thread a result
// value back out through every middleware layer without changing the Next
// signature.
const handlerResultKey = "router.internal.result"
