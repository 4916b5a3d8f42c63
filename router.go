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

import "sync/atomic"

// Router is the frozen, immutable routing table and executor produced by
// RouterBuilder.Build. It is safe for concurrent use: every field is
// written once, during Build, before any Call/Batch runs.
type Router struct {
	table   *RoutingTable
	aliases *aliasTable
	cfg     *RouterConfig

	frozen atomic.Bool
}

// Paths returns every canonical procedure path, in build order.
func (r *Router) Paths() []string { return r.table.paths() }

// Entry returns the Entry registered at path, following at most one alias
// hop first.
func (r *Router) Entry(path string) (*Entry, bool) {
	return r.resolveEntry(path)
}

// Has reports whether path (canonical or aliased) resolves to an Entry.
func (r *Router) Has(path string) bool {
	_, ok := r.resolveEntry(path)
	return ok
}

// EntriesByPrefix returns every Entry whose canonical path is prefix or a
// dotted descendant of it.
func (r *Router) EntriesByPrefix(prefix string) []*Entry {
	return r.table.entriesByPrefix(prefix)
}

// entriesOfKind filters every Entry down to one ProcedureKind.
func (r *Router) entriesOfKind(kind ProcedureKind) []*Entry {
	var out []*Entry
	for _, p := range r.table.paths() {
		e, _ := r.table.lookup(p)
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// Queries returns every registered query Entry.
func (r *Router) Queries() []*Entry { return r.entriesOfKind(Query) }

// Mutations returns every registered mutation Entry.
func (r *Router) Mutations() []*Entry { return r.entriesOfKind(Mutation) }

// Subscriptions returns every registered subscription Entry.
func (r *Router) Subscriptions() []*Entry { return r.entriesOfKind(Subscription) }

// Aliases returns every alias source path, in declaration order.
func (r *Router) Aliases() []string { return r.aliases.froms() }

// Resolve follows at most one alias hop and returns the canonical path,
// without fetching the Entry.
func (r *Router) Resolve(path string) (string, bool) {
	if _, ok := r.table.lookup(path); ok {
		return path, true
	}
	if to, ok := r.aliases.resolve(path); ok {
		return to, true
	}
	return "", false
}

// MiddlewareFor returns the resolved middleware module names, in
// execution order, for the Entry at path.
func (r *Router) MiddlewareFor(path string) ([]string, bool) {
	e, ok := r.resolveEntry(path)
	if !ok {
		return nil, false
	}
	names := make([]string, len(e.Middleware))
	for i, m := range e.Middleware {
		names[i] = m.name
	}
	return names, true
}

// ProcedureFor returns the Definition backing the Entry at path.
func (r *Router) ProcedureFor(path string) (*Definition, bool) {
	e, ok := r.resolveEntry(path)
	if !ok {
		return nil, false
	}
	return e.Def, true
}

// resolveEntry follows at most one alias hop — chains are rejected at
// build time, so a single hop always suffices — and returns the canonical
// Entry.
func (r *Router) resolveEntry(path string) (*Entry, bool) {
	if e, ok := r.table.lookup(path); ok {
		return e, true
	}
	if to, ok := r.aliases.resolve(path); ok {
		return r.table.lookup(to)
	}
	return nil, false
}
