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
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/wirekit/router"
)

// JSONSchema validates raw input directly against a compiled JSON Schema
// document: compile once, validate many times, and flatten nested
// validation causes into field-level errors for Definition.Input/Output.
type JSONSchema struct {
	// Document is the JSON Schema as a decoded any (map[string]any or the
	// result of json.Unmarshal), compiled lazily and cached.
	Document map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	compErr  error
}

// NewJSONSchema parses raw JSON Schema text into a JSONSchema.
func NewJSONSchema(rawJSON string) (*JSONSchema, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(rawJSON), &doc); err != nil {
		return nil, fmt.Errorf("router/schema: invalid JSON Schema document: %w", err)
	}
	return &JSONSchema{Document: doc}, nil
}

func (s *JSONSchema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat()
		if err := compiler.AddResource("schema.json", s.Document); err != nil {
			s.compErr = fmt.Errorf("router/schema: add resource: %w", err)
			return
		}
		compiled, err := compiler.Compile("schema.json")
		if err != nil {
			s.compErr = fmt.Errorf("router/schema: compile: %w", err)
			return
		}
		s.compiled = compiled
	})
	return s.compiled, s.compErr
}

// Parse validates raw (already a decoded any — map[string]any, []any,
// or a scalar) against the compiled schema and, on success, returns the
// JSON round-tripped copy of raw it validated (maps as map[string]any,
// numbers as float64), since JSON Schema describes shape, not a target Go
// type.
func (s *JSONSchema) Parse(_ context.Context, raw any) (any, []router.ValidationError) {
	compiled, err := s.compile()
	if err != nil {
		return nil, []router.ValidationError{{Message: err.Error()}}
	}

	// jsonschema validates against json-decoded-shaped values; round-trip
	// through json to normalize Go-typed maps/structs into that shape.
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, []router.ValidationError{{Message: "marshal failed: " + err.Error()}}
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, []router.ValidationError{{Message: "unmarshal failed: " + err.Error()}}
	}

	if err := compiled.Validate(data); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, []router.ValidationError{{Message: err.Error()}}
		}
		return nil, flattenSchemaErrors(verr)
	}
	return data, nil
}

// flattenSchemaErrors walks the ValidationError cause tree, collecting one
// router.ValidationError per leaf failure.
func flattenSchemaErrors(verr *jsonschema.ValidationError) []router.ValidationError {
	var out []router.ValidationError
	var walk func(v *jsonschema.ValidationError)
	walk = func(v *jsonschema.ValidationError) {
		if v == nil {
			return
		}
		if len(v.Causes) == 0 {
			out = append(out, router.ValidationError{
				Path:    v.InstanceLocation,
				Message: v.Error(),
			})
			return
		}
		for _, cause := range v.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return out
}

// ToJSONSchema returns the document this schema was compiled from.
func (s *JSONSchema) ToJSONSchema() (map[string]any, bool) {
	return s.Document, true
}

var _ router.Schema = (*JSONSchema)(nil)
