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

// Package recovery recovers a panic anywhere in the rest of the middleware
// chain (including the handler) and turns it into an Internal
// *errors.Error instead of letting it escape to the transport goroutine.
package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	rerrors "github.com/wirekit/router/errors"

	"github.com/wirekit/router"
)

// Option configures the recovery middleware.
type Option func(*config)

type config struct {
	stackTrace bool
	stackSize  int
	logger     *slog.Logger
}

func defaultConfig() *config {
	return &config{
		stackTrace: true,
		stackSize:  4 << 10,
		logger:     slog.Default(),
	}
}

// WithStackTrace toggles whether the recovered panic's stack trace is
// attached to the resulting error's Details.
func WithStackTrace(enabled bool) Option {
	return func(c *config) { c.stackTrace = enabled }
}

// WithStackSize bounds how many bytes of stack trace are captured.
func WithStackSize(n int) Option {
	return func(c *config) { c.stackSize = n }
}

// WithLogger overrides the logger panics are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds the recovery Middleware.
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

func (m middleware) Call(ctx context.Context, rc *router.Context, cfgAny any, next router.Next) (result *router.Context, rerr *rerrors.Error) {
	cfg := cfgAny.(*config)

	defer func() {
		if p := recover(); p != nil {
			fields := map[string]any{"panic": fmt.Sprintf("%v", p)}
			if cfg.stackTrace {
				stack := debug.Stack()
				if len(stack) > cfg.stackSize {
					stack = stack[:cfg.stackSize]
				}
				fields["stack"] = string(stack)
			}
			cfg.logger.Error("recovered panic in procedure chain",
				"path", rc.ProcedurePath, "panic", p)
			result = rc
			rerr = rerrors.InternalError("internal error").
				WithPath(rc.ProcedurePath).
				WithDetails(fields)
		}
	}()

	return next(ctx, rc)
}

var _ router.Middleware = middleware{}
