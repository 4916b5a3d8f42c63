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

	rerrors "github.com/wirekit/router/errors"
)

// HandlerFunc is a procedure handler: typed input in, value-or-error out.
type HandlerFunc func(ctx context.Context, rc *Context, input any) (any, *rerrors.Error)

// RESTMethod is one of the five HTTP methods a Route may declare for REST
// adapters. The core never interprets it — it is carried through for
// transport introspection only.
type RESTMethod string

const (
	MethodGET    RESTMethod = "GET"
	MethodPOST   RESTMethod = "POST"
	MethodPUT    RESTMethod = "PUT"
	MethodPATCH  RESTMethod = "PATCH"
	MethodDELETE RESTMethod = "DELETE"
)

func (m RESTMethod) valid() bool {
	switch m {
	case MethodGET, MethodPOST, MethodPUT, MethodPATCH, MethodDELETE:
		return true
	default:
		return false
	}
}

// Route describes how a REST adapter should expose a procedure.
type Route struct {
	Method       RESTMethod
	PathTemplate string
}

// Meta holds the recognised documentation/introspection options for a
// procedure plus any unknown keys, preserved-but-ignored, under Extra.
type Meta struct {
	Description string
	Summary     string
	Tags        []string
	Examples    []any

	// Deprecated is bool or string (a deprecation note); nil means not set.
	Deprecated any

	OperationID string

	// ValidateOutput is nil when unset, letting output-validation
	// precedence fall through to the process config default.
	ValidateOutput *bool

	Extra map[string]any
}

// SourceLocation records where a Definition was declared, so build-time
// diagnostics can report file+line alongside a failing procedure name.
type SourceLocation struct {
	File string
	Line int
	Unit string
}

// Definition is the frozen record of one declared procedure.
type Definition struct {
	Name string
	Kind ProcedureKind

	Input  Schema
	Output Schema

	Handler HandlerFunc

	Meta  Meta
	Route *Route

	LocalMiddleware []Binding
	SourceLocation  SourceLocation
}

// validate checks the structural invariants a Definition must satisfy,
// given a resolver able to confirm an implicit handler exists.
func (d *Definition) validate(hasImplicit func(name string) bool) error {
	if !isIdentifier(d.Name) {
		return fmt.Errorf("procedure %q: name is not a valid identifier", d.Name)
	}
	if d.Handler == nil && !hasImplicit(d.Name) {
		return fmt.Errorf("procedure %q: no Handler and no matching callable in declaring unit %q (%s:%d)",
			d.Name, d.SourceLocation.Unit, d.SourceLocation.File, d.SourceLocation.Line)
	}
	if d.Route != nil {
		if !d.Route.Method.valid() {
			return fmt.Errorf("procedure %q: route method %q is not one of GET|POST|PUT|PATCH|DELETE", d.Name, d.Route.Method)
		}
		if d.Route.PathTemplate == "" {
			return fmt.Errorf("procedure %q: route pathTemplate is empty", d.Name)
		}
	}
	return nil
}
