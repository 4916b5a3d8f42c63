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

// Entry is the frozen, build-time-composed record the routing table stores
// under a canonical path. It carries everything the executor needs without
// ever consulting a Registry or Definition again at call time.
type Entry struct {
	Path string
	Def  *Definition

	// Registry is the owning Registry, kept so the executor can resolve an
	// implicit handler (the Definition's Handler may be nil).
	Registry *Registry

	// Middleware is the fully resolved chain for this path: global
	// middleware, then scope middleware outside-in, then procedure-local
	// middleware, minus any module named in a skip list along the way.
	Middleware []resolvedMiddleware

	// SourceUnit mirrors Def.SourceLocation.Unit, duplicated here for
	// telemetry convenience (a Sink should not need to dereference Def).
	SourceUnit string
}

// Kind returns the procedure kind, a thin convenience over Entry.Def.Kind.
func (e *Entry) Kind() ProcedureKind { return e.Def.Kind }

// RoutingTable is the frozen path -> Entry map a Router carries after
// Build. It is never mutated after construction; concurrent reads are
// always safe.
type RoutingTable struct {
	entries map[string]*Entry
	order   []string // insertion order, for deterministic introspection
}

func newRoutingTable() *RoutingTable {
	return &RoutingTable{entries: make(map[string]*Entry)}
}

func (t *RoutingTable) add(e *Entry) bool {
	if _, exists := t.entries[e.Path]; exists {
		return false
	}
	t.entries[e.Path] = e
	t.order = append(t.order, e.Path)
	return true
}

// lookup returns the Entry registered at path, if any.
func (t *RoutingTable) lookup(path string) (*Entry, bool) {
	e, ok := t.entries[path]
	return e, ok
}

// paths returns every canonical path in insertion (build) order.
func (t *RoutingTable) paths() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// entriesByPrefix returns every Entry whose path is prefix or a strict
// dotted descendant of prefix ("users" matches "users" and "users.list"
// but not "usersettings").
func (t *RoutingTable) entriesByPrefix(prefix string) []*Entry {
	var out []*Entry
	for _, p := range t.order {
		if p == prefix || (len(p) > len(prefix) && p[:len(prefix)] == prefix && p[len(prefix)] == '.') {
			out = append(out, t.entries[p])
		}
	}
	return out
}
