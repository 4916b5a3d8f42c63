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

	rerrors "github.com/wirekit/router/errors"
)

// BeforeHook runs before input validation, in the order given. It may
// replace rc; a non-nil *errors.Error short-circuits the remaining hooks
// and the rest of the pipeline.
type BeforeHook func(ctx context.Context, rc *Context, rawInput any) (*Context, *rerrors.Error)

// AfterHook runs after output validation, in the order given. It may
// replace value; a non-nil *errors.Error short-circuits the remaining
// hooks and the pipeline.
type AfterHook func(ctx context.Context, rc *Context, value any) (any, *rerrors.Error)

// callOptions accumulates the per-call overrides a Call/Batch invocation
// may supply on top of the Router's build-time defaults.
type callOptions struct {
	before         []BeforeHook
	after          []AfterHook
	validateOutput *bool
}

// CallOption mutates callOptions; passed variadically to Call and Batch.
type CallOption func(*callOptions)

// WithBeforeHooks appends hooks run sequentially before input validation.
func WithBeforeHooks(hooks ...BeforeHook) CallOption {
	return func(c *callOptions) { c.before = append(c.before, hooks...) }
}

// WithAfterHooks appends hooks run sequentially after output validation.
func WithAfterHooks(hooks ...AfterHook) CallOption {
	return func(c *callOptions) { c.after = append(c.after, hooks...) }
}

// WithCallValidateOutput overrides output-validation for this call alone,
// taking precedence over both Definition.Meta.ValidateOutput and
// RouterConfig.ValidateOutputDefault.
func WithCallValidateOutput(v bool) CallOption {
	return func(c *callOptions) { c.validateOutput = &v }
}

func resolveCallOptions(opts []CallOption) *callOptions {
	c := &callOptions{}
	for _, o := range opts {
		o(c)
	}
	return c
}
