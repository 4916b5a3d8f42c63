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

package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createUserInput struct {
	Name string `mapstructure:"name" validate:"required"`
	Age  int    `mapstructure:"age" validate:"gte=0"`
}

func TestTagSchema_ValidInput(t *testing.T) {
	s := &TagSchema{New: func() any { return &createUserInput{} }}

	val, verrs := s.Parse(context.Background(), map[string]any{"name": "ada", "age": 30})
	require.Empty(t, verrs)
	input := val.(*createUserInput)
	assert.Equal(t, "ada", input.Name)
	assert.Equal(t, 30, input.Age)
}

func TestTagSchema_MissingRequiredField(t *testing.T) {
	s := &TagSchema{New: func() any { return &createUserInput{} }}

	_, verrs := s.Parse(context.Background(), map[string]any{"age": 30})
	require.NotEmpty(t, verrs)
}

func TestTagSchema_ToJSONSchemaUnsupported(t *testing.T) {
	s := &TagSchema{New: func() any { return &createUserInput{} }}
	_, ok := s.ToJSONSchema()
	assert.False(t, ok)
}
