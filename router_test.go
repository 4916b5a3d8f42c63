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
	"testing"
	"time"

	rerrors "github.com/wirekit/router/errors"
	"github.com/wirekit/router/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughSchema accepts any input and returns it unchanged; it never
// rejects, used where tests don't care about validation.
type passthroughSchema struct{}

func (passthroughSchema) Parse(_ context.Context, raw any) (any, []ValidationError) { return raw, nil }
func (passthroughSchema) ToJSONSchema() (map[string]any, bool)                      { return nil, false }

// rejectingSchema always returns a single ValidationError.
type rejectingSchema struct{ msg string }

func (r rejectingSchema) Parse(_ context.Context, _ any) (any, []ValidationError) {
	return nil, []ValidationError{{Path: []string{"field"}, Message: r.msg}}
}
func (rejectingSchema) ToJSONSchema() (map[string]any, bool) { return nil, false }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry("users", nil)
	reg.Query("get").
		Input(passthroughSchema{}).
		Handler(func(_ context.Context, rc *Context, input any) (any, *rerrors.Error) {
			return map[string]any{"id": input}, nil
		}).
		Register()
	reg.Mutation("create").
		Input(rejectingSchema{msg: "required"}).
		Handler(func(_ context.Context, rc *Context, input any) (any, *rerrors.Error) {
			return nil, nil
		}).
		Register()
	require.NoError(t, reg.Finalize())
	return reg
}

func TestCall_Success(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).Build()
	require.NoError(t, err)

	val, rerr := rt.Call(context.Background(), NewContext(TransportNone), "users.get", "42")
	require.Nil(t, rerr)
	assert.Equal(t, map[string]any{"id": "42"}, val)
}

func TestCall_ValidationFailed(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).Build()
	require.NoError(t, err)

	_, rerr := rt.Call(context.Background(), NewContext(TransportNone), "users.create", nil)
	require.NotNil(t, rerr)
	assert.Equal(t, rerrors.Validation, rerr.Code)
}

func TestCall_InvalidPath(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).Build()
	require.NoError(t, err)

	_, rerr := rt.Call(context.Background(), NewContext(TransportNone), "Invalid..Path", nil)
	require.NotNil(t, rerr)
	assert.Equal(t, rerrors.InvalidPath, rerr.Code)
}

func TestCall_NotFound_WithSuggestions(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).Build()
	require.NoError(t, err)

	_, rerr := rt.Call(context.Background(), NewContext(TransportNone), "users.gett", nil)
	require.NotNil(t, rerr)
	assert.Equal(t, rerrors.NotFound, rerr.Code)
	assert.Contains(t, rerr.Suggestions, "users.get")
}

func TestCall_MiddlewareShortCircuit(t *testing.T) {
	reg := newTestRegistry(t)
	denyAll := MiddlewareFunc(func(ctx context.Context, rc *Context, next Next) (*Context, *rerrors.Error) {
		return SetResult(rc, "denied"), nil
	})
	rt, err := NewRouterBuilder().
		Use(Bind("deny", denyAll, nil)).
		Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).
		Build()
	require.NoError(t, err)

	val, rerr := rt.Call(context.Background(), NewContext(TransportNone), "users.get", "42")
	require.Nil(t, rerr)
	assert.Equal(t, "denied", val)
}

func TestCall_MiddlewareSkippedViaSkipList(t *testing.T) {
	reg := newTestRegistry(t)
	denyAll := MiddlewareFunc(func(ctx context.Context, rc *Context, next Next) (*Context, *rerrors.Error) {
		return SetResult(rc, "denied"), nil
	})
	rt, err := NewRouterBuilder().
		Use(Bind("deny", denyAll, nil)).
		Group("users", func(s *ScopeBuilder) { s.Mount(reg, "deny") }).
		Build()
	require.NoError(t, err)

	val, rerr := rt.Call(context.Background(), NewContext(TransportNone), "users.get", "42")
	require.Nil(t, rerr)
	assert.Equal(t, map[string]any{"id": "42"}, val)
}

func TestAlias_Resolves(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().
		Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).
		Alias("getUser", "users.get", false).
		Build()
	require.NoError(t, err)

	val, rerr := rt.Call(context.Background(), NewContext(TransportNone), "getUser", "7")
	require.Nil(t, rerr)
	assert.Equal(t, map[string]any{"id": "7"}, val)
}

func TestAlias_ChainRejected(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := NewRouterBuilder().
		Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).
		Alias("a", "users.get", false).
		Alias("b", "a", false).
		Build()
	require.Error(t, err)
}

func TestBuild_DuplicatePathRejected(t *testing.T) {
	reg1 := NewRegistry("u1", nil)
	reg1.Query("get").Input(passthroughSchema{}).Handler(func(_ context.Context, _ *Context, in any) (any, *rerrors.Error) {
		return in, nil
	}).Register()
	require.NoError(t, reg1.Finalize())

	reg2 := NewRegistry("u2", nil)
	reg2.Query("get").Input(passthroughSchema{}).Handler(func(_ context.Context, _ *Context, in any) (any, *rerrors.Error) {
		return in, nil
	}).Register()
	require.NoError(t, reg2.Finalize())

	_, err := NewRouterBuilder().
		Group("users", func(s *ScopeBuilder) {
			s.Mount(reg1)
			s.Mount(reg2)
		}).
		Build()
	require.Error(t, err)
}

func TestBatch_PreservesOrderAndIsolatesFailures(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).Build()
	require.NoError(t, err)

	results := rt.Batch(context.Background(), NewContext(TransportNone), []BatchCall{
		{Path: "users.get", Input: "1"},
		{Path: "users.create", Input: nil},
		{Path: "users.get", Input: "3"},
	})
	require.Len(t, results, 3)
	assert.Nil(t, results[0].Err)
	assert.Equal(t, map[string]any{"id": "1"}, results[0].Value)
	require.NotNil(t, results[1].Err)
	assert.Equal(t, rerrors.Validation, results[1].Err.Code)
	assert.Equal(t, map[string]any{"id": "3"}, results[2].Value)
}

func TestBatch_TooLarge(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder(WithBatchLimits(2, 2)).
		Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).
		Build()
	require.NoError(t, err)

	results := rt.Batch(context.Background(), NewContext(TransportNone), []BatchCall{
		{Path: "users.get", Input: "1"},
		{Path: "users.get", Input: "2"},
		{Path: "users.get", Input: "3"},
	})
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, rerrors.BatchTooLarge, results[0].Err.Code)
}

func TestCall_RootMount(t *testing.T) {
	reg := NewRegistry("health", nil)
	reg.Query("ping").Handler(func(_ context.Context, _ *Context, _ any) (any, *rerrors.Error) {
		return "pong", nil
	}).Register()
	require.NoError(t, reg.Finalize())

	rt, err := NewRouterBuilder().Mount(reg).Build()
	require.NoError(t, err)

	val, rerr := rt.Call(context.Background(), NewContext(TransportNone), "ping", nil)
	require.Nil(t, rerr)
	assert.Equal(t, "pong", val)
}

func TestBuild_UnfinalizedRegistryRejected(t *testing.T) {
	reg := NewRegistry("users", nil)
	reg.Query("get").Handler(func(_ context.Context, _ *Context, in any) (any, *rerrors.Error) {
		return in, nil
	}).Register()

	_, err := NewRouterBuilder().Mount(reg).Build()
	require.Error(t, err)
}

func TestCall_NotTimedOutByCore(t *testing.T) {
	reg := NewRegistry("slow", nil)
	reg.Query("wait").Handler(func(_ context.Context, _ *Context, _ any) (any, *rerrors.Error) {
		time.Sleep(20 * time.Millisecond)
		return "done", nil
	}).Register()
	require.NoError(t, reg.Finalize())

	rt, err := NewRouterBuilder().
		Group("slow", func(s *ScopeBuilder) { s.Mount(reg) }).
		Build()
	require.NoError(t, err)

	val, rerr := rt.Call(context.Background(), NewContext(TransportNone), "slow.wait", nil)
	require.Nil(t, rerr)
	assert.Equal(t, "done", val)
}

func TestBatch_PerCallTimeout(t *testing.T) {
	reg := NewRegistry("slow", nil)
	reg.Query("wait").Handler(func(ctx context.Context, _ *Context, _ any) (any, *rerrors.Error) {
		select {
		case <-time.After(50 * time.Millisecond):
			return "done", nil
		case <-ctx.Done():
			return nil, rerrors.New(rerrors.Timeout, "canceled")
		}
	}).Register()
	require.NoError(t, reg.Finalize())

	rt, err := NewRouterBuilder(WithBatchCallTimeout(1 * time.Millisecond)).
		Group("slow", func(s *ScopeBuilder) { s.Mount(reg) }).
		Build()
	require.NoError(t, err)

	results := rt.Batch(context.Background(), NewContext(TransportNone), []BatchCall{
		{Path: "slow.wait", Input: nil},
	})
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, rerrors.Timeout, results[0].Err.Code)
}

func TestRouter_NestedScopeMiddlewareChain(t *testing.T) {
	noop := MiddlewareFunc(func(ctx context.Context, rc *Context, next Next) (*Context, *rerrors.Error) {
		return next(ctx, rc)
	})
	logger := Bind("Logger", noop, nil)
	auth := Bind("Auth", noop, nil)
	adminCheck := Bind("AdminCheck", noop, nil)

	users := NewRegistry("users", nil)
	users.Query("get").Handler(func(_ context.Context, _ *Context, in any) (any, *rerrors.Error) {
		return in, nil
	}).Register()
	require.NoError(t, users.Finalize())

	admin := NewRegistry("actions", nil)
	admin.Query("stats").Handler(func(_ context.Context, _ *Context, in any) (any, *rerrors.Error) {
		return in, nil
	}).Register()
	require.NoError(t, admin.Finalize())

	rt, err := NewRouterBuilder().
		Use(logger).
		Group("users", func(s *ScopeBuilder) { s.Mount(users) }).
		Group("admin", func(s *ScopeBuilder) {
			s.Use(auth, adminCheck)
			s.Group("actions", func(s *ScopeBuilder) { s.Mount(admin) })
		}).
		Build()
	require.NoError(t, err)

	adminChain, ok := rt.MiddlewareFor("admin.actions.stats")
	require.True(t, ok)
	assert.Equal(t, []string{"Logger", "Auth", "AdminCheck"}, adminChain)

	usersChain, ok := rt.MiddlewareFor("users.get")
	require.True(t, ok)
	assert.Equal(t, []string{"Logger"}, usersChain)
}

func TestCall_HandlerPanicIsTrapped(t *testing.T) {
	reg := NewRegistry("danger", nil)
	reg.Query("explode").Handler(func(_ context.Context, _ *Context, _ any) (any, *rerrors.Error) {
		panic("kaboom")
	}).Register()
	require.NoError(t, reg.Finalize())

	rt, err := NewRouterBuilder(WithIncludeExceptionDetails(true)).
		Group("danger", func(s *ScopeBuilder) { s.Mount(reg) }).
		Build()
	require.NoError(t, err)

	_, rerr := rt.Call(context.Background(), NewContext(TransportNone), "danger.explode", nil)
	require.NotNil(t, rerr)
	assert.Equal(t, rerrors.Internal, rerr.Code)
	assert.Contains(t, rerr.Details["panic"], "kaboom")
}

func TestCall_BeforeAndAfterHooksRun(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).Build()
	require.NoError(t, err)

	var beforeSeen, afterSeen any
	before := WithBeforeHooks(func(_ context.Context, rc *Context, rawInput any) (*Context, *rerrors.Error) {
		beforeSeen = rawInput
		return rc, nil
	})
	after := WithAfterHooks(func(_ context.Context, _ *Context, value any) (any, *rerrors.Error) {
		afterSeen = value
		return value, nil
	})

	val, rerr := rt.Call(context.Background(), NewContext(TransportNone), "users.get", "9", before, after)
	require.Nil(t, rerr)
	assert.Equal(t, "9", beforeSeen)
	assert.Equal(t, map[string]any{"id": "9"}, afterSeen)
	assert.Equal(t, map[string]any{"id": "9"}, val)
}

func TestCall_BeforeHookShortCircuits(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).Build()
	require.NoError(t, err)

	denied := rerrors.New(rerrors.Validation, "denied by hook")
	before := WithBeforeHooks(func(_ context.Context, rc *Context, _ any) (*Context, *rerrors.Error) {
		return rc, denied
	})

	_, rerr := rt.Call(context.Background(), NewContext(TransportNone), "users.get", "1", before)
	require.NotNil(t, rerr)
	assert.Equal(t, rerrors.Validation, rerr.Code)
}

func TestCall_PerCallValidateOutputOverridesDefault(t *testing.T) {
	reg := NewRegistry("widgets", nil)
	reg.Query("get").
		Output(rejectingSchema{msg: "bad shape"}).
		Handler(func(_ context.Context, _ *Context, _ any) (any, *rerrors.Error) {
			return map[string]any{"ok": true}, nil
		}).
		Register()
	require.NoError(t, reg.Finalize())

	// Process default validates output, so the handler's result would
	// normally fail against rejectingSchema.
	rt, err := NewRouterBuilder(WithValidateOutputDefault(true)).
		Group("widgets", func(s *ScopeBuilder) { s.Mount(reg) }).
		Build()
	require.NoError(t, err)

	_, rerr := rt.Call(context.Background(), NewContext(TransportNone), "widgets.get", nil)
	require.NotNil(t, rerr)
	assert.Equal(t, rerrors.Internal, rerr.Code)

	// The per-call override takes precedence and skips it.
	val, rerr := rt.Call(context.Background(), NewContext(TransportNone), "widgets.get", nil, WithCallValidateOutput(false))
	require.Nil(t, rerr)
	assert.Equal(t, map[string]any{"ok": true}, val)
}

func TestAlias_DeprecatedFlagSurfacedToEvents(t *testing.T) {
	reg := newTestRegistry(t)
	var events []telemetry.Event
	sink := telemetry.SinkFunc(func(e telemetry.Event) { events = append(events, e) })

	rt, err := NewRouterBuilder(WithTelemetrySink(sink)).
		Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).
		Alias("legacyGetUser", "users.get", true).
		Build()
	require.NoError(t, err)

	_, rerr := rt.Call(context.Background(), NewContext(TransportNone), "legacyGetUser", "1")
	require.Nil(t, rerr)

	var found bool
	for _, e := range events {
		if e.Kind == telemetry.RouterAliasResolved {
			found = true
			assert.Equal(t, "legacyGetUser", e.Fields["from"])
			assert.Equal(t, "users.get", e.Fields["to"])
			assert.Equal(t, true, e.Fields["deprecated"])
		}
	}
	assert.True(t, found, "expected a router.alias.resolved event")
}

func TestRouter_Introspection(t *testing.T) {
	reg := newTestRegistry(t)
	rt, err := NewRouterBuilder().
		Group("users", func(s *ScopeBuilder) { s.Mount(reg) }).
		Alias("getUser", "users.get", false).
		Build()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"users.get", "users.create"}, rt.Paths())
	assert.True(t, rt.Has("users.get"))
	assert.True(t, rt.Has("getUser"))
	assert.False(t, rt.Has("users.missing"))
	assert.Len(t, rt.Queries(), 1)
	assert.Len(t, rt.Mutations(), 1)
	assert.Equal(t, []string{"getUser"}, rt.Aliases())

	canonical, ok := rt.Resolve("getUser")
	require.True(t, ok)
	assert.Equal(t, "users.get", canonical)
}
