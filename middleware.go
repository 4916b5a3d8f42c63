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

	rerrors "github.com/wirekit/router/errors"
)

// Next is the continuation a Middleware invokes to hand control to the
// next link in the chain (or to the handler, if it is the innermost
// middleware). The executor threads it through an index-threaded iterative
// loop over the resolved middleware slice rather than true
// continuation-passing.
type Next func(ctx context.Context, rc *Context) (*Context, *rerrors.Error)

// Middleware is the two-operation contract every middleware module
// implements:
//
//   - Init runs once per call-site (when the router build phase composes a
//     procedure's middleware chain), turning declaration-time opts into a
//     resolved config value threaded into every Call invocation.
//   - Call runs once per request. It may inspect/derive ctx and rc, then
//     either invoke next exactly once to continue the chain, or return
//     without invoking next to short-circuit.
//
// Short-circuit semantics: a
// Middleware that returns (ctx', nil) without calling next is a legitimate
// short-circuit — "handler skipped, middleware supplies the result" — not a
// protocol violation. The executor has no way to distinguish "supplied a
// result" from "forgot to call next", so Middleware authors are expected to
// document which behavior theirs exhibits; a Middleware that wants to
// signal success-without-a-value should do so through ctx's Assigns, which
// the final handler-position return value then reflects.
type Middleware interface {
	// Init validates/normalizes opts once, at build time. A non-nil error
	// fails the router build.
	Init(opts map[string]any) (any, error)

	// Call executes once per request.
	Call(ctx context.Context, rc *Context, cfg any, next Next) (*Context, *rerrors.Error)
}

// MiddlewareFunc adapts a bare function with no Init-time configuration
// into a Middleware.
type MiddlewareFunc func(ctx context.Context, rc *Context, next Next) (*Context, *rerrors.Error)

// Init is a no-op; MiddlewareFunc ignores opts.
func (f MiddlewareFunc) Init(map[string]any) (any, error) { return nil, nil }

// Call invokes the wrapped function.
func (f MiddlewareFunc) Call(ctx context.Context, rc *Context, _ any, next Next) (*Context, *rerrors.Error) {
	return f(ctx, rc, next)
}

// SetResult returns a derived Context carrying value as the call's result.
// A Middleware that short-circuits the chain (returns without invoking
// next) calls SetResult to supply the value the caller ultimately
// receives; a short-circuit with no SetResult call yields a nil result.
func SetResult(rc *Context, value any) *Context {
	return rc.WithAssign(handlerResultKey, value)
}

// Binding pairs a named Middleware module with its declaration-time opts.
// The Name is what a procedure's skip list matches against: a mount point
// can drop any (module, _) whose module appears in its skip list.
type Binding struct {
	Name   string
	Module Middleware
	Opts   map[string]any
}

// Bind is a convenience constructor for Binding, used throughout
// RouterBuilder/ScopeBuilder/DefinitionBuilder call sites.
func Bind(name string, module Middleware, opts map[string]any) Binding {
	return Binding{Name: name, Module: module, Opts: opts}
}

// resolvedMiddleware is a Binding whose Init has already run — the
// pre-composed middleware chain an Entry carries.
type resolvedMiddleware struct {
	name   string
	module Middleware
	config any
}

// resolveBindings runs Init once per Binding, in order, producing the
// resolvedMiddleware slice stored on an Entry.
func resolveBindings(bindings []Binding) ([]resolvedMiddleware, error) {
	resolved := make([]resolvedMiddleware, 0, len(bindings))
	for _, b := range bindings {
		cfg, err := b.Module.Init(b.Opts)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedMiddleware{name: b.Name, module: b.Module, config: cfg})
	}
	return resolved, nil
}
