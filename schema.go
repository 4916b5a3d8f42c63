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

import "context"

// ValidationError is a single input-rejection, scoped to a path of segments
// into the raw input (e.g. ["items", "2", "price"]).
type ValidationError struct {
	Path    []string
	Message string
}

// Schema is the opaque handle this package expects from an external
// validation engine (see router/schema for two concrete implementations:
// struct-tag based and JSON-Schema based). The core never implements
// Schema itself — it is the seam where an out-of-scope external
// collaborator plugs in.
type Schema interface {
	// Parse decodes and validates raw input, returning either a typed value
	// or a non-empty slice of ValidationError.
	Parse(ctx context.Context, raw any) (any, []ValidationError)

	// ToJSONSchema renders the schema as a JSON Schema document for
	// introspection/codegen consumers. The second return is false when the
	// schema cannot produce one.
	ToJSONSchema() (map[string]any, bool)
}
