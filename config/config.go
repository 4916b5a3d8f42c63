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

// Package config loads RouterConfig values from layered sources — process
// defaults, an optional YAML file, then environment variables — each layer
// merged over the last with dario.cat/mergo, scaled down to the handful of
// scalar knobs RouterConfig exposes.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	yaml "github.com/goccy/go-yaml"
	"github.com/spf13/cast"

	"github.com/wirekit/router"
)

// Values is the YAML/env-addressable mirror of router.RouterConfig's
// scalar fields. It exists separately from RouterConfig because
// RouterConfig.Sink is a live interface value, not something a config file
// can express.
type Values struct {
	ValidateOutputDefault   bool          `yaml:"validate_output_default"`
	IncludeExceptionDetails bool          `yaml:"include_exception_details"`
	BatchCallTimeout        time.Duration `yaml:"batch_call_timeout"`
	BatchMaxSize            int           `yaml:"batch_max_size"`
	BatchConcurrency        int           `yaml:"batch_concurrency"`
	SuggestionLimit         int           `yaml:"suggestion_limit"`
	SuggestionThreshold     float64       `yaml:"suggestion_threshold"`
}

// Defaults mirrors the zero-value defaults RouterConfig's own
// defaultRouterConfig applies, so a Load with no file/env overrides
// produces an equivalent router.
func Defaults() Values {
	return Values{
		ValidateOutputDefault:   true,
		IncludeExceptionDetails: false,
		BatchCallTimeout:        30 * time.Second,
		BatchMaxSize:            50,
		BatchConcurrency:        10,
		SuggestionLimit:         3,
		SuggestionThreshold:     0.7,
	}
}

// Load builds Values by merging, in ascending precedence: Defaults(), the
// YAML document at path (skipped if path is empty or unreadable-as-missing),
// then environment variables under prefix (skipped if prefix is empty).
// Later sources win field-by-field via mergo.WithOverride.
func Load(path string, envPrefix string) (Values, error) {
	v := Defaults()

	if path != "" {
		fileVals, err := loadYAMLFile(path)
		if err != nil {
			return Values{}, err
		}
		if err := mergo.Merge(&v, fileVals, mergo.WithOverride); err != nil {
			return Values{}, fmt.Errorf("router/config: merge yaml layer: %w", err)
		}
	}

	if envPrefix != "" {
		envVals, err := loadEnv(envPrefix)
		if err != nil {
			return Values{}, err
		}
		if err := mergo.Merge(&v, envVals, mergo.WithOverride); err != nil {
			return Values{}, fmt.Errorf("router/config: merge env layer: %w", err)
		}
	}

	return v, nil
}

func loadYAMLFile(path string) (Values, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Values{}, nil
		}
		return Values{}, fmt.Errorf("router/config: read %s: %w", path, err)
	}
	var v Values
	if err := yaml.Unmarshal(b, &v); err != nil {
		return Values{}, fmt.Errorf("router/config: parse %s: %w", path, err)
	}
	return v, nil
}

// loadEnv reads PREFIX_VALIDATE_OUTPUT_DEFAULT, PREFIX_INCLUDE_EXCEPTION_DETAILS,
// PREFIX_BATCH_CALL_TIMEOUT, PREFIX_BATCH_MAX_SIZE, PREFIX_BATCH_CONCURRENCY,
// PREFIX_SUGGESTION_LIMIT, and PREFIX_SUGGESTION_THRESHOLD, coercing the
// booleans, integers, and float with spf13/cast (so "1" and "true" both
// parse) and the timeout with time.ParseDuration (so "2s" parses).
func loadEnv(prefix string) (Values, error) {
	prefix = strings.ToUpper(strings.TrimSuffix(prefix, "_")) + "_"
	var v Values

	if s, ok := os.LookupEnv(prefix + "VALIDATE_OUTPUT_DEFAULT"); ok {
		b, err := cast.ToBoolE(s)
		if err != nil {
			return Values{}, fmt.Errorf("router/config: %sVALIDATE_OUTPUT_DEFAULT: %w", prefix, err)
		}
		v.ValidateOutputDefault = b
	}
	if s, ok := os.LookupEnv(prefix + "INCLUDE_EXCEPTION_DETAILS"); ok {
		b, err := cast.ToBoolE(s)
		if err != nil {
			return Values{}, fmt.Errorf("router/config: %sINCLUDE_EXCEPTION_DETAILS: %w", prefix, err)
		}
		v.IncludeExceptionDetails = b
	}
	if s, ok := os.LookupEnv(prefix + "BATCH_CALL_TIMEOUT"); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Values{}, fmt.Errorf("router/config: %sBATCH_CALL_TIMEOUT: %w", prefix, err)
		}
		v.BatchCallTimeout = d
	}
	if s, ok := os.LookupEnv(prefix + "BATCH_MAX_SIZE"); ok {
		n, err := cast.ToIntE(s)
		if err != nil {
			return Values{}, fmt.Errorf("router/config: %sBATCH_MAX_SIZE: %w", prefix, err)
		}
		v.BatchMaxSize = n
	}
	if s, ok := os.LookupEnv(prefix + "BATCH_CONCURRENCY"); ok {
		n, err := cast.ToIntE(s)
		if err != nil {
			return Values{}, fmt.Errorf("router/config: %sBATCH_CONCURRENCY: %w", prefix, err)
		}
		v.BatchConcurrency = n
	}
	if s, ok := os.LookupEnv(prefix + "SUGGESTION_LIMIT"); ok {
		n, err := cast.ToIntE(s)
		if err != nil {
			return Values{}, fmt.Errorf("router/config: %sSUGGESTION_LIMIT: %w", prefix, err)
		}
		v.SuggestionLimit = n
	}
	if s, ok := os.LookupEnv(prefix + "SUGGESTION_THRESHOLD"); ok {
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return Values{}, fmt.Errorf("router/config: %sSUGGESTION_THRESHOLD: %w", prefix, err)
		}
		v.SuggestionThreshold = f
	}
	return v, nil
}

// Options renders Values as the router.Option slice RouterBuilder expects.
func (v Values) Options() []router.Option {
	return []router.Option{
		router.WithValidateOutputDefault(v.ValidateOutputDefault),
		router.WithIncludeExceptionDetails(v.IncludeExceptionDetails),
		router.WithBatchCallTimeout(v.BatchCallTimeout),
		router.WithBatchLimits(v.BatchMaxSize, v.BatchConcurrency),
		router.WithSuggestions(v.SuggestionLimit, v.SuggestionThreshold),
	}
}
