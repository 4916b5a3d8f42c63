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
	"time"

	rerrors "github.com/wirekit/router/errors"
	"github.com/wirekit/router/telemetry"
)

// Call resolves path (following at most one alias hop), runs the executor
// pipeline, and returns the handler's result or a wire-stable *errors.Error.
// Call itself imposes no deadline on the executor run — the core never times
// out an individual call; a transport or caller wanting a bound should
// derive ctx with its own deadline before calling.
func (r *Router) Call(ctx context.Context, rc *Context, path string, input any, opts ...CallOption) (any, *rerrors.Error) {
	start := time.Now()
	sink := r.cfg.Sink
	sink.OnEvent(telemetry.Event{Kind: telemetry.RouterLookupStart, Path: path})

	lookupDone := func(found bool) {
		sink.OnEvent(telemetry.Event{
			Kind: telemetry.RouterLookupStop, Path: path, Duration: time.Since(start),
			Fields: map[string]any{"path": path, "found": found},
		})
	}

	if !isRelaxedPath(path) {
		lookupDone(false)
		return nil, rerrors.New(rerrors.InvalidPath, "path does not match a valid procedure path grammar").WithPath(path)
	}

	entry, ok := r.table.lookup(path)
	if !ok {
		if target, aliasOK := r.aliases.lookupAlias(path); aliasOK {
			sink.OnEvent(telemetry.Event{
				Kind: telemetry.RouterAliasResolved,
				Fields: map[string]any{
					"from": target.From, "to": target.To, "deprecated": target.Deprecated,
				},
			})
			entry, ok = r.table.lookup(target.To)
		}
	}
	if !ok {
		suggestions := r.suggest(path)
		lookupDone(false)
		return nil, rerrors.NotFoundWithSuggestions(path, suggestions)
	}

	if rc == nil {
		rc = NewContext(TransportNone)
	}

	val, rerr := r.execute(ctx, rc, entry, input, resolveCallOptions(opts))
	lookupDone(true)
	return val, rerr
}
