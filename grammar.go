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

import "strings"

// isIdentifier matches path grammar A's segment rule: [a-z][a-z0-9_]*.
// Procedure names, scope segments, and canonical Entry paths all use this
// grammar.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case i == 0 && r >= 'a' && r <= 'z':
		case i > 0 && ((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'):
		default:
			return false
		}
	}
	return true
}

// isRelaxedIdentifier matches path grammar B's segment rule:
// [A-Za-z][A-Za-z0-9_]*, used only for alias From paths so legacy
// camelCase aliases can target a canonical snake/flat path.
func isRelaxedIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case i == 0 && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')):
		case i > 0 && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'):
		default:
			return false
		}
	}
	return true
}

// isStrictPath validates a dotted sequence of strict identifiers
// (path grammar A): no empty segments, no leading/trailing dots.
func isStrictPath(path string) bool {
	return validDottedPath(path, isIdentifier)
}

// isRelaxedPath validates a dotted sequence of relaxed identifiers (path
// grammar B). Grammar A is a strict subset of grammar B, so every strict
// path is also a valid relaxed path.
func isRelaxedPath(path string) bool {
	return validDottedPath(path, isRelaxedIdentifier)
}

func validDottedPath(path string, segmentOK func(string) bool) bool {
	if path == "" {
		return false
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if !segmentOK(seg) {
			return false
		}
	}
	return true
}

// joinPath renders a segment list as a canonical dotted path.
func joinPath(segments []string) string {
	return strings.Join(segments, ".")
}
