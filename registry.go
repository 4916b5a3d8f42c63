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
	"reflect"
	"runtime"
	"strings"
	"sync"

	rerrors "github.com/wirekit/router/errors"
)

// Registry is the per-declaring-unit collection of Definitions. Callers
// build one with NewRegistry, chain Query/Mutation/Subscription builders,
// and call Finalize once all Definitions are registered.
type Registry struct {
	unit string
	bind any // the declaring unit value, used for implicit-handler lookup

	mu         sync.Mutex
	defs       []*Definition
	byName     map[string]*Definition
	byKind     map[ProcedureKind][]*Definition
	finalized  bool
	finalizeOK bool
}

// NewRegistry creates a Registry for the named declaring unit. bind, if
// non-nil, is the Go value whose exported methods back any Definition that
// omits an explicit Handler — see resolveImplicit.
func NewRegistry(unit string, bind any) *Registry {
	return &Registry{
		unit:   unit,
		bind:   bind,
		byName: make(map[string]*Definition),
		byKind: make(map[ProcedureKind][]*Definition),
	}
}

// Unit returns the declaring unit's name, used in Entry.SourceUnit
// diagnostics and telemetry metadata.
func (r *Registry) Unit() string { return r.unit }

// DefinitionBuilder is the fluent registration API used to declare one
// procedure at a time.
type DefinitionBuilder struct {
	r   *Registry
	def *Definition
}

func (r *Registry) newBuilder(kind ProcedureKind, name string) *DefinitionBuilder {
	_, file, line, _ := runtime.Caller(2)
	return &DefinitionBuilder{
		r: r,
		def: &Definition{
			Name: name,
			Kind: kind,
			SourceLocation: SourceLocation{
				File: file,
				Line: line,
				Unit: r.unit,
			},
		},
	}
}

// Query starts a read-only, idempotent procedure declaration.
func (r *Registry) Query(name string) *DefinitionBuilder { return r.newBuilder(Query, name) }

// Mutation starts a side-effecting procedure declaration.
func (r *Registry) Mutation(name string) *DefinitionBuilder { return r.newBuilder(Mutation, name) }

// Subscription starts a streaming procedure declaration.
func (r *Registry) Subscription(name string) *DefinitionBuilder {
	return r.newBuilder(Subscription, name)
}

// Input sets the input Schema.
func (b *DefinitionBuilder) Input(s Schema) *DefinitionBuilder { b.def.Input = s; return b }

// Output sets the output Schema.
func (b *DefinitionBuilder) Output(s Schema) *DefinitionBuilder { b.def.Output = s; return b }

// Handler sets the handler function explicitly. If omitted, the executor
// resolves an implicit handler by name at call time.
func (b *DefinitionBuilder) Handler(fn HandlerFunc) *DefinitionBuilder { b.def.Handler = fn; return b }

// WithMeta sets the Definition's Meta options.
func (b *DefinitionBuilder) WithMeta(m Meta) *DefinitionBuilder { b.def.Meta = m; return b }

// WithRoute declares the REST route for this procedure.
func (b *DefinitionBuilder) WithRoute(method RESTMethod, pathTemplate string) *DefinitionBuilder {
	b.def.Route = &Route{Method: method, PathTemplate: pathTemplate}
	return b
}

// Use appends procedure-local middleware bindings, in declaration order.
func (b *DefinitionBuilder) Use(bindings ...Binding) *DefinitionBuilder {
	b.def.LocalMiddleware = append(b.def.LocalMiddleware, bindings...)
	return b
}

// Register finalizes the Definition and appends it to the Registry. The
// returned *Definition is immutable from this point forward.
func (b *DefinitionBuilder) Register() *Definition {
	b.r.mu.Lock()
	defer b.r.mu.Unlock()
	b.r.defs = append(b.r.defs, b.def)
	return b.def
}

// handlerMethodType is the reflect.Type every implicit-handler method must
// structurally match: func(context.Context, *Context, any) (any, *errors.Error).
// Bound method values carry an unnamed func type, never the named
// HandlerFunc type itself, so matching uses ConvertibleTo (structural
// identity) rather than ==.
var handlerMethodType = reflect.TypeOf(HandlerFunc(nil))

// hasImplicit reports whether the declaring unit exposes a callable
// matching name, by reflecting over bind's exported methods.
func (r *Registry) hasImplicit(name string) bool {
	_, ok := r.findMethod(name)
	return ok
}

func (r *Registry) findMethod(name string) (reflect.Value, bool) {
	if r.bind == nil {
		return reflect.Value{}, false
	}
	method := exportedMethodName(name)
	v := reflect.ValueOf(r.bind)
	m := v.MethodByName(method)
	if !m.IsValid() || !m.Type().ConvertibleTo(handlerMethodType) {
		return reflect.Value{}, false
	}
	return m, true
}

// resolveImplicit looks up the declaring unit's callable for name at call
// time rather than at build time, so the binding may be defined textually
// after the Definition that references it. The reflected method value is
// wrapped in a HandlerFunc closure so callers never deal with reflect.
func (r *Registry) resolveImplicit(name string) (HandlerFunc, bool) {
	m, ok := r.findMethod(name)
	if !ok {
		return nil, false
	}
	return func(ctx context.Context, rc *Context, input any) (any, *rerrors.Error) {
		methodType := m.Type()
		args := []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(rc)}
		inputArg := reflect.New(methodType.In(2)).Elem()
		if input != nil {
			inputArg.Set(reflect.ValueOf(input))
		}
		args = append(args, inputArg)

		out := m.Call(args)
		value := out[0].Interface()
		errVal := out[1].Interface()
		if errVal == nil {
			return value, nil
		}
		return value, errVal.(*rerrors.Error)
	}, true
}

// exportedMethodName converts a procedure's snake_case/flat identifier into
// the exported Go method name reflection requires ("list_users" ->
// "ListUsers", "get" -> "Get").
func exportedMethodName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// Finalize runs the build-time validations every Definition must pass and
// freezes the Registry. It must be called exactly once, before any
// RouterBuilder.Mount references this Registry.
func (r *Registry) Finalize() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalized {
		if r.finalizeOK {
			return nil
		}
		return fmt.Errorf("registry %q: Finalize already failed once", r.unit)
	}
	r.finalized = true

	seen := make(map[string]*Definition, len(r.defs))
	for _, d := range r.defs {
		if err := d.validate(r.hasImplicit); err != nil {
			return err
		}
		if existing, dup := seen[d.Name]; dup {
			return fmt.Errorf("registry %q: duplicate procedure name %q (declared at %s:%d and %s:%d)",
				r.unit, d.Name, existing.SourceLocation.File, existing.SourceLocation.Line,
				d.SourceLocation.File, d.SourceLocation.Line)
		}
		seen[d.Name] = d
		r.byName[d.Name] = d
		r.byKind[d.Kind] = append(r.byKind[d.Kind], d)
	}
	r.finalizeOK = true
	return nil
}

// ListAll returns every Definition in declaration order.
func (r *Registry) ListAll() []*Definition {
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// ListByKind returns every Definition of the given kind, in declaration order.
func (r *Registry) ListByKind(kind ProcedureKind) []*Definition {
	defs := r.byKind[kind]
	out := make([]*Definition, len(defs))
	copy(out, defs)
	return out
}

// ByName looks up a Definition by name.
func (r *Registry) ByName(name string) (*Definition, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Has reports whether name is a registered procedure.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Names returns every registered procedure name, in declaration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.Name
	}
	return out
}
