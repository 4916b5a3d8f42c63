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

import "maps"

// Transport names the kind of connection a Context was built from.
type Transport uint8

const (
	// TransportNone is used by test helpers and non-network callers.
	TransportNone Transport = iota
	TransportHTTP
	TransportWebSocket
)

// String renders the transport name used in telemetry metadata.
func (t Transport) String() string {
	switch t {
	case TransportHTTP:
		return "http"
	case TransportWebSocket:
		return "websocket"
	default:
		return "none"
	}
}

// Context is the per-call bag threaded through the middleware chain. It is
// immutable-with-copy-on-assign: every With* method returns a derived
// Context with its own copies of Assigns/Metadata, leaving the receiver
// untouched. A Context is never shared across concurrent calls — each call
// to [Router.Call] owns the chain of Contexts its middleware produces.
type Context struct {
	Transport Transport

	// RawConn/RawSocket are opaque handles the transport adapter supplies;
	// the core never dereferences them.
	RawConn   any
	RawSocket any

	Assigns  map[string]any
	Metadata map[string]any

	// ProcedurePath/ProcedureKind are set by dispatch before the executor
	// runs; they are the zero value (empty string, Query) on a freshly
	// built Context.
	ProcedurePath string
	ProcedureKind ProcedureKind
	hasProcedure  bool
}

// NewContext builds a fresh Context for the given transport. Assigns and
// Metadata start out empty, non-nil maps.
func NewContext(transport Transport) *Context {
	return &Context{
		Transport: transport,
		Assigns:   make(map[string]any),
		Metadata:  make(map[string]any),
	}
}

// clone returns a Context with freshly copied Assigns/Metadata maps,
// sharing every other field by value. Callers mutate the copy, never c.
func (c *Context) clone() *Context {
	cp := *c
	cp.Assigns = maps.Clone(c.Assigns)
	cp.Metadata = maps.Clone(c.Metadata)
	if cp.Assigns == nil {
		cp.Assigns = make(map[string]any)
	}
	if cp.Metadata == nil {
		cp.Metadata = make(map[string]any)
	}
	return &cp
}

// WithAssign returns a derived Context with key set in Assigns.
func (c *Context) WithAssign(key string, value any) *Context {
	cp := c.clone()
	cp.Assigns[key] = value
	return cp
}

// Assign reads a key from Assigns.
func (c *Context) Assign(key string) (any, bool) {
	v, ok := c.Assigns[key]
	return v, ok
}

// WithMeta returns a derived Context with key set in Metadata.
func (c *Context) WithMeta(key string, value any) *Context {
	cp := c.clone()
	cp.Metadata[key] = value
	return cp
}

// Meta reads a key from Metadata.
func (c *Context) Meta(key string) (any, bool) {
	v, ok := c.Metadata[key]
	return v, ok
}

// withProcedure returns a derived Context tagged with the resolved
// Entry's path and kind. Called by dispatch before the executor runs.
func (c *Context) withProcedure(path string, kind ProcedureKind) *Context {
	cp := c.clone()
	cp.ProcedurePath = path
	cp.ProcedureKind = kind
	cp.hasProcedure = true
	return cp
}
