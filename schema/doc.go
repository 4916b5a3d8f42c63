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

// Package schema provides two concrete implementations of router.Schema:
//
//   - TagSchema decodes raw input into a typed Go value with
//     go-viper/mapstructure and validates it with go-playground/validator
//     struct tags.
//   - JSONSchema validates raw input directly against a JSON Schema
//     document with santhosh-tekuri/jsonschema/v6, compiling once and
//     flattening nested validation causes into field-level errors.
//
// Both satisfy router.Schema so a Definition can mix and match per
// procedure.
package schema
