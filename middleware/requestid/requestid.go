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

// Package requestid assigns a unique request ID to every procedure call.
// It reads and writes Context.Metadata rather than any transport-specific
// header, so the same middleware works identically over HTTP, WebSocket,
// or any future transport adapter.
package requestid

import (
	"context"

	"github.com/google/uuid"

	rerrors "github.com/wirekit/router/errors"

	"github.com/wirekit/router"
)

// metadataKey is the Context.Metadata key the request ID is stored under.
const metadataKey = "request_id"

// Option configures the requestid middleware.
type Option func(*config)

type config struct {
	generator     func() string
	allowClientID bool
}

func defaultConfig() *config {
	return &config{
		generator:     func() string { return uuid.New().String() },
		allowClientID: true,
	}
}

// WithGenerator overrides the request ID generator. The default uses
// github.com/google/uuid to produce a UUIDv4.
func WithGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.generator = fn
		}
	}
}

// WithAllowClientID controls whether a request ID already present in
// Context.Metadata (e.g. set by a transport adapter from an inbound
// header) is honored, or always overwritten with a freshly generated one.
func WithAllowClientID(allow bool) Option {
	return func(c *config) { c.allowClientID = allow }
}

// New builds the requestid Middleware.
func New(opts ...Option) router.Middleware {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return middleware{cfg: cfg}
}

type middleware struct {
	cfg *config
}

func (m middleware) Init(map[string]any) (any, error) { return m.cfg, nil }

func (m middleware) Call(ctx context.Context, rc *router.Context, cfgAny any, next router.Next) (*router.Context, *rerrors.Error) {
	cfg := cfgAny.(*config)

	id := ""
	if cfg.allowClientID {
		if v, ok := rc.Meta(metadataKey); ok {
			if s, ok := v.(string); ok && s != "" {
				id = s
			}
		}
	}
	if id == "" {
		id = cfg.generator()
	}

	return next(ctx, rc.WithMeta(metadataKey, id))
}

var _ router.Middleware = middleware{}

// Get reads the request ID that New's middleware attached to rc, if any.
func Get(rc *router.Context) (string, bool) {
	v, ok := rc.Meta(metadataKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
