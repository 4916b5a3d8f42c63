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
	"sort"

	"github.com/xrash/smetrics"
)

// scoredPath pairs a candidate canonical path with its similarity score
// against the path that failed to resolve.
type scoredPath struct {
	path  string
	score float64
}

// suggest ranks every known canonical path and alias source by Jaro
// similarity to path, and returns the top RouterConfig.SuggestionLimit
// candidates scoring above SuggestionThreshold, so a NotFound error can
// propose nearby valid paths.
func (r *Router) suggest(path string) []string {
	if r.cfg.SuggestionLimit <= 0 {
		return nil
	}

	candidates := r.table.paths()
	candidates = append(candidates, r.aliases.froms()...)

	scored := make([]scoredPath, 0, len(candidates))
	for _, c := range candidates {
		if c == path {
			continue
		}
		score := smetrics.Jaro(path, c)
		if score > r.cfg.SuggestionThreshold {
			scored = append(scored, scoredPath{path: c, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].path < scored[j].path
	})

	limit := r.cfg.SuggestionLimit
	if limit > len(scored) {
		limit = len(scored)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = scored[i].path
	}
	return out
}
