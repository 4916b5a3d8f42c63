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

// Package errors defines the wire-stable error taxonomy shared by the
// router's build phase, executor, and dispatch surface.
//
// Every failure the core returns to a caller is a value of type [Error]: a
// stable [Kind], a human-oriented message, and kind-specific extras
// (validation field details, path-suggestion lists). Errors are never
// raised as panics past the executor boundary — a handler panic is trapped
// and converted to an [Internal] error before it reaches dispatch.
//
// Domain handlers are free to return any error value from their own
// vocabulary; the executor passes those through to the caller unchanged
// ("Any other domain code returned by a handler passes through verbatim").
// [New] and its siblings exist for the core's own failures (routing misses,
// validation rejections, timeouts).
package errors
