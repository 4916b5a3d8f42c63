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

package telemetry

import (
	"context"
	"log/slog"
)

// SlogSink reports every Event as a structured log line. A nil Logger
// falls back to slog.Default() rather than panicking.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink wraps logger as a Sink. A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{Logger: logger}
}

// OnEvent logs e at a level chosen by its Kind: procedure.exception and
// build.failed at Warn, a router.lookup.stop that found nothing at Info,
// everything else at Debug to avoid flooding production logs with
// successful-call chatter.
func (s *SlogSink) OnEvent(e Event) {
	level := slog.LevelDebug
	switch e.Kind {
	case ProcedureException, BuildFailed:
		level = slog.LevelWarn
	case RouterLookupStop:
		if found, _ := e.Fields["found"].(bool); !found {
			level = slog.LevelInfo
		}
	}

	args := make([]any, 0, 2+2*len(e.Fields))
	args = append(args, "kind", string(e.Kind))
	if e.Path != "" {
		args = append(args, "path", e.Path)
	}
	if e.Duration > 0 {
		args = append(args, "duration", e.Duration)
	}
	for k, v := range e.Fields {
		args = append(args, k, v)
	}
	s.Logger.Log(context.Background(), level, string(e.Kind), args...)
}
