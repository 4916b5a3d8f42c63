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

// Package router is a typed, schema-validated RPC dispatch core.
//
// A caller declares procedures — read-only queries, side-effecting
// mutations, and long-lived subscriptions — whose inputs and outputs are
// described by a [Schema]. Procedures live in a [Registry] (one per
// "declaring unit": a Go value whose exported methods back any handler-less
// Definitions). A [RouterBuilder] composes registries, scope-local
// middleware, and path aliases into an immutable routing table;
// [RouterBuilder.Build] freezes it into a [Router].
//
// The package is transport-agnostic: it never imports net/http. A transport
// adapter constructs a [Context] from its native request, then calls
// [Router.Call] or [Router.Batch]. Everything downstream of that call —
// alias resolution, input/output validation, middleware composition,
// cancellation, telemetry — is this package's job.
//
// Example:
//
//	users := router.NewRegistry("users", &userHandlers{})
//	users.Query("get").Input(idSchema).Handler(getUser).Register()
//	if err := users.Finalize(); err != nil {
//		log.Fatal(err)
//	}
//
//	rt, err := router.NewRouterBuilder().
//		Use(router.Bind("logger", loggerMW, nil)).
//		Group("users", func(s *router.ScopeBuilder) { s.Mount(users) }).
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rc := router.NewContext(router.TransportHTTP)
//	value, rpcErr := rt.Call(ctx, rc, "users.get", map[string]any{"id": "42"})
package router
