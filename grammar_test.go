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

import "testing"

func TestIsIdentifier(t *testing.T) {
	cases := map[string]bool{
		"get":       true,
		"list_all":  true,
		"a1":        true,
		"":          false,
		"Get":       false,
		"1abc":      false,
		"get-all":   false,
		"get_":      true,
		"_get":      false,
	}
	for in, want := range cases {
		if got := isIdentifier(in); got != want {
			t.Errorf("isIdentifier(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsRelaxedIdentifier(t *testing.T) {
	cases := map[string]bool{
		"getUser":  true,
		"GetUser":  true,
		"get_user": true,
		"1get":     false,
		"":         false,
	}
	for in, want := range cases {
		if got := isRelaxedIdentifier(in); got != want {
			t.Errorf("isRelaxedIdentifier(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestGrammarASubsetOfB asserts grammar A is a subset of grammar B: every
// strict path is also a valid relaxed path.
func TestGrammarASubsetOfB(t *testing.T) {
	paths := []string{"users.get", "users.list_all", "a.b.c"}
	for _, p := range paths {
		if !isStrictPath(p) {
			t.Fatalf("expected %q to be a valid strict path", p)
		}
		if !isRelaxedPath(p) {
			t.Errorf("grammar A ⊂ B violated: %q is strict but not relaxed", p)
		}
	}
}

func TestIsStrictPath(t *testing.T) {
	if isStrictPath("") {
		t.Error("empty path must be invalid")
	}
	if isStrictPath("users..get") {
		t.Error("empty segment must be invalid")
	}
	if !isStrictPath("users.get") {
		t.Error("users.get must be valid")
	}
}

func TestJoinPath(t *testing.T) {
	if got := joinPath([]string{"users", "get"}); got != "users.get" {
		t.Errorf("joinPath = %q, want users.get", got)
	}
}
