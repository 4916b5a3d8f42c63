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
	"fmt"
	"slices"

	"github.com/wirekit/router/telemetry"
)

// mountedRegistry records one Registry mounted into a scope, along with the
// middleware module names this mount point skips.
type mountedRegistry struct {
	registry *Registry
	skip     []string
}

// scopeNode is one level of the Declaration tree RouterBuilder/ScopeBuilder
// build up, a nested Group construct generalized from HTTP path segments
// to dotted procedure-path segments.
type scopeNode struct {
	segment    string // empty for the root scope
	middleware []Binding
	skip       []string
	mounts     []mountedRegistry
	children   []*scopeNode
}

// RouterBuilder is the fluent, tree-shaped declaration API for composing
// scopes, middleware, mounted registries, and aliases into a Router. A
// RouterBuilder is single-use: call Build once all Group/Use/Mount/Alias
// calls are done.
type RouterBuilder struct {
	root    *scopeNode
	aliases []Alias
	cfg     *RouterConfig
}

// NewRouterBuilder starts a fresh RouterBuilder with the given Options
// applied on top of the defaults from defaultRouterConfig.
func NewRouterBuilder(opts ...Option) *RouterBuilder {
	cfg := defaultRouterConfig()
	for _, o := range opts {
		o(cfg)
	}
	return &RouterBuilder{root: &scopeNode{}, cfg: cfg}
}

// ScopeBuilder is the handle passed into a Group callback; it exposes the
// same mutators as RouterBuilder scoped to one scopeNode.
type ScopeBuilder struct {
	b    *RouterBuilder
	node *scopeNode
}

// Root returns the top-level ScopeBuilder, equivalent to calling every
// mutator directly on b.
func (b *RouterBuilder) Root() *ScopeBuilder { return &ScopeBuilder{b: b, node: b.root} }

// Use appends global middleware bindings, applied to every procedure in the
// router ahead of any scope or procedure-local middleware.
func (b *RouterBuilder) Use(bindings ...Binding) *RouterBuilder {
	b.root.middleware = append(b.root.middleware, bindings...)
	return b
}

// Mount attaches a finalized Registry's procedures at the router root,
// skipping any middleware named in skip for procedures under this mount.
func (b *RouterBuilder) Mount(reg *Registry, skip ...string) *RouterBuilder {
	b.root.mounts = append(b.root.mounts, mountedRegistry{registry: reg, skip: skip})
	return b
}

// Group declares a named sub-scope, joined to its parent by a dot, and
// hands the caller a ScopeBuilder to populate it.
func (b *RouterBuilder) Group(segment string, fn func(*ScopeBuilder)) *RouterBuilder {
	b.Root().Group(segment, fn)
	return b
}

// Alias registers a path alias at the router level. deprecated marks the
// alias as kept only for backward compatibility.
func (b *RouterBuilder) Alias(from, to string, deprecated bool) *RouterBuilder {
	b.aliases = append(b.aliases, NewAlias(from, to, deprecated))
	return b
}

// Use appends middleware scoped to this ScopeBuilder's node and everything
// nested beneath it.
func (s *ScopeBuilder) Use(bindings ...Binding) *ScopeBuilder {
	s.node.middleware = append(s.node.middleware, bindings...)
	return s
}

// Mount attaches a Registry's procedures under this scope.
func (s *ScopeBuilder) Mount(reg *Registry, skip ...string) *ScopeBuilder {
	s.node.mounts = append(s.node.mounts, mountedRegistry{registry: reg, skip: skip})
	return s
}

// Group nests a further sub-scope under this one.
func (s *ScopeBuilder) Group(segment string, fn func(*ScopeBuilder)) *ScopeBuilder {
	child := &scopeNode{segment: segment}
	s.node.children = append(s.node.children, child)
	if fn != nil {
		fn(&ScopeBuilder{b: s.b, node: child})
	}
	return s
}

// Alias registers a path alias at the router level (aliases are always
// global; there is no scope-local alias namespace). deprecated marks the
// alias as kept only for backward compatibility.
func (s *ScopeBuilder) Alias(from, to string, deprecated bool) *ScopeBuilder {
	s.b.aliases = append(s.b.aliases, NewAlias(from, to, deprecated))
	return s
}

// pendingEntry is an Entry under construction during the tree walk, before
// middleware resolution (Init) has run.
type pendingEntry struct {
	path       string
	def        *Definition
	registry   *Registry
	middleware []Binding
}

// walk recurses the Declaration tree, accumulating the dotted path prefix
// and the middleware chain inherited from every ancestor scope, outside-in.
func walk(node *scopeNode, prefixSegs []string, inherited []Binding, out *[]pendingEntry) error {
	chain := append(append([]Binding{}, inherited...), node.middleware...)

	for _, m := range node.mounts {
		if !m.registry.finalizeOK {
			return fmt.Errorf("registry %q: must call Finalize (successfully) before Mount", m.registry.unit)
		}
		for _, def := range m.registry.ListAll() {
			segs := append(append([]string{}, prefixSegs...), def.Name)
			path := joinPath(segs)
			if !isStrictPath(path) {
				return fmt.Errorf("procedure %q: composed path %q is not valid under path grammar A", def.Name, path)
			}
			filtered := filterSkipped(append(append([]Binding{}, chain...), def.LocalMiddleware...), m.skip)
			*out = append(*out, pendingEntry{path: path, def: def, registry: m.registry, middleware: filtered})
		}
	}

	for _, child := range node.children {
		segs := append(append([]string{}, prefixSegs...), child.segment)
		if !isIdentifier(child.segment) {
			return fmt.Errorf("scope %q: not a valid identifier segment", child.segment)
		}
		if err := walk(child, segs, chain, out); err != nil {
			return err
		}
	}
	return nil
}

// filterSkipped drops any Binding whose Name appears in skip, preserving
// order of the remaining bindings.
func filterSkipped(bindings []Binding, skip []string) []Binding {
	if len(skip) == 0 {
		return append([]Binding{}, bindings...)
	}
	out := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		if slices.Contains(skip, b.Name) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Build walks the Declaration tree, composes every Entry's middleware
// chain, validates aliases, and freezes the result into a *Router.
func (b *RouterBuilder) Build() (*Router, error) {
	sink := b.cfg.Sink

	var pending []pendingEntry
	if err := walk(b.root, nil, nil, &pending); err != nil {
		sink.OnEvent(telemetry.Event{Kind: telemetry.BuildFailed, Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}

	table := newRoutingTable()
	for _, pe := range pending {
		resolved, err := resolveBindings(pe.middleware)
		if err != nil {
			err = fmt.Errorf("procedure %q: middleware Init failed: %w", pe.path, err)
			sink.OnEvent(telemetry.Event{Kind: telemetry.BuildFailed, Path: pe.path, Fields: map[string]any{"error": err.Error()}})
			return nil, err
		}
		entry := &Entry{
			Path:       pe.path,
			Def:        pe.def,
			Registry:   pe.registry,
			Middleware: resolved,
			SourceUnit: pe.def.SourceLocation.Unit,
		}
		if !table.add(entry) {
			err := fmt.Errorf("procedure %q: duplicate canonical path", pe.path)
			sink.OnEvent(telemetry.Event{Kind: telemetry.BuildFailed, Path: pe.path, Fields: map[string]any{"error": err.Error()}})
			return nil, err
		}
		sink.OnEvent(telemetry.Event{Kind: telemetry.BuildRouteRegistered, Path: pe.path})
	}

	aliases, err := validateAliases(b.aliases, table)
	if err != nil {
		sink.OnEvent(telemetry.Event{Kind: telemetry.BuildFailed, Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}

	r := &Router{
		table:   table,
		aliases: aliases,
		cfg:     b.cfg,
	}
	r.frozen.Store(true)
	return r, nil
}
