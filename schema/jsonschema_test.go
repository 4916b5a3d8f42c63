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

const userSchemaJSON = `{
	"type": "object",
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"age": {"type": "integer", "minimum": 0}
	},
	"required": ["name"]
}`

func TestJSONSchema_ValidInput(t *testing.T) {
	s, err := NewJSONSchema(userSchemaJSON)
	require.NoError(t, err)

	val, verrs := s.Parse(context.Background(), map[string]any{"name": "ada", "age": 30})
	assert.Empty(t, verrs)
	assert.NotNil(t, val)
}

func TestJSONSchema_MissingRequiredField(t *testing.T) {
	s, err := NewJSONSchema(userSchemaJSON)
	require.NoError(t, err)

	_, verrs := s.Parse(context.Background(), map[string]any{"age": 30})
	require.NotEmpty(t, verrs)
}

func TestJSONSchema_WrongType(t *testing.T) {
	s, err := NewJSONSchema(userSchemaJSON)
	require.NoError(t, err)

	_, verrs := s.Parse(context.Background(), map[string]any{"name": "ada", "age": "not-a-number"})
	require.NotEmpty(t, verrs)
}

func TestJSONSchema_ToJSONSchema(t *testing.T) {
	s, err := NewJSONSchema(userSchemaJSON)
	require.NoError(t, err)

	doc, ok := s.ToJSONSchema()
	require.True(t, ok)
	assert.Equal(t, "object", doc["type"])
}
