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

// Package accesslog logs one structured line per procedure call: path,
// kind, duration, and outcome.
package accesslog

import (
	"context"
	"log/slog"
	"time"

	rerrors "github.com/wirekit/router/errors"

	"github.com/wirekit/router"
)

// Option configures the accesslog middleware.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	slowThreshold time.Duration
	excludePaths  map[string]bool
}

func defaultConfig() *config {
	return &config{
		logger:       slog.Default(),
		excludePaths: make(map[string]bool),
	}
}

// WithLogger overrides the destination logger. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSlowThreshold logs at Warn instead of Info when a call's duration
// meets or exceeds d.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *config) { c.slowThreshold = d }
}

// WithExcludePaths skips logging entirely for the named procedure paths
// (e.g. a noisy health-check query).
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// New builds the accesslog Middleware.
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

	if cfg.excludePaths[rc.ProcedurePath] {
		return next(ctx, rc)
	}

	start := time.Now()
	after, rerr := next(ctx, rc)
	duration := time.Since(start)

	level := slog.LevelInfo
	if cfg.slowThreshold > 0 && duration >= cfg.slowThreshold {
		level = slog.LevelWarn
	}
	args := []any{
		"path", rc.ProcedurePath,
		"kind", rc.ProcedureKind.String(),
		"duration", duration,
	}
	if rerr != nil {
		level = slog.LevelWarn
		args = append(args, "error_code", string(rerr.Code))
	}
	cfg.logger.Log(ctx, level, "procedure call", args...)

	return after, rerr
}

var _ router.Middleware = middleware{}
