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
	"strings"
	"sync"

	validator "github.com/go-playground/validator/v10"
	mapstructure "github.com/go-viper/mapstructure/v2"

	"github.com/wirekit/router"
)

// TagSchema decodes an arbitrary raw input (typically a map[string]any
// decoded from JSON) into New()'s return type with mapstructure, then
// validates the result with a shared, cached validator.Validate instance —
// a struct-tag validation strategy.
type TagSchema struct {
	// New returns a fresh zero value of the target type, e.g. func() any {
	// return &CreateUserInput{} }.
	New func() any

	once sync.Once
	v    *validator.Validate
}

var validatorOnce sync.Once
var sharedValidator *validator.Validate

func (s *TagSchema) validatorInstance() *validator.Validate {
	s.once.Do(func() {
		validatorOnce.Do(func() {
			sharedValidator = validator.New(validator.WithRequiredStructEnabled())
		})
		s.v = sharedValidator
	})
	return s.v
}

// Parse decodes raw into s.New()'s type via mapstructure (honoring `mapstructure`
// tags, falling back to field name) and validates the result via
// go-playground/validator `validate` tags.
func (s *TagSchema) Parse(_ context.Context, raw any) (any, []router.ValidationError) {
	target := s.New()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
	})
	if err != nil {
		return nil, []router.ValidationError{{Message: "internal: could not build decoder: " + err.Error()}}
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, []router.ValidationError{{Message: "decode failed: " + err.Error()}}
	}

	if err := s.validatorInstance().Struct(target); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, []router.ValidationError{{Message: err.Error()}}
		}
		out := make([]router.ValidationError, len(verrs))
		for i, fe := range verrs {
			out[i] = router.ValidationError{
				Path:    strings.Split(fe.Namespace(), ".")[1:],
				Message: fe.Tag() + " failed on field " + fe.Field(),
			}
		}
		return nil, out
	}
	return target, nil
}

// ToJSONSchema is unsupported for a struct-tag schema; there is no
// generalized validator-tag -> JSON Schema translation in scope here.
func (s *TagSchema) ToJSONSchema() (map[string]any, bool) {
	return nil, false
}

var _ router.Schema = (*TagSchema)(nil)
