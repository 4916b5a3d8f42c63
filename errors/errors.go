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

package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is a wire-stable error code. Transports serialize Kind verbatim;
// renaming a constant's value is a breaking change for every client.
type Kind string

const (
	// NotFound means the path matched neither an Entry nor an Alias.
	NotFound Kind = "NOT_FOUND"

	// InvalidPath means the path violates both the strict and relaxed
	// identifier grammars.
	InvalidPath Kind = "INVALID_PATH"

	// Validation means input schema rejection. Details carries
	// map<dotted-field-path, []string> under the "fields" key.
	Validation Kind = "VALIDATION_ERROR"

	// Timeout means a Batch per-call deadline was exceeded.
	Timeout Kind = "TIMEOUT"

	// BatchTooLarge means len(calls) > max_batch_size.
	BatchTooLarge Kind = "BATCH_TOO_LARGE"

	// Internal means a trapped panic, a response-validation failure, or an
	// unexpected handler return shape. The message is deliberately generic;
	// schema/stack details are attached only when configured to do so.
	Internal Kind = "INTERNAL_ERROR"
)

// ErrSentinel lets callers use errors.Is(err, ErrSentinel) to recognize any
// *Error regardless of Kind.
var ErrSentinel = stderrors.New("router: error")

// Error is the canonical error value returned by the build phase, the
// executor, and dispatch. It is also the shape every domain handler's
// {error, mapping} return is coerced into before it reaches a transport.
type Error struct {
	Code        Kind           `json:"code"`
	Message     string         `json:"message"`
	Details     map[string]any `json:"details,omitempty"`
	Path        string         `json:"path,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

// New builds an *Error with the given code and message.
func New(code Kind, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an *Error with a formatted message.
func Newf(code Kind, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Path)
}

// Unwrap returns [ErrSentinel] for errors.Is/errors.As compatibility.
func (e *Error) Unwrap() error {
	return ErrSentinel
}

// Is reports whether target is an *Error with the same Code, so
// errors.Is(err, errors.New(Kind, "")) works without comparing messages.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// WithDetails returns a copy of e with Details set.
func (e *Error) WithDetails(details map[string]any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// WithPath returns a copy of e with Path set.
func (e *Error) WithPath(path string) *Error {
	cp := *e
	cp.Path = path
	return &cp
}

// WithSuggestions returns a copy of e with Suggestions set.
func (e *Error) WithSuggestions(suggestions []string) *Error {
	cp := *e
	cp.Suggestions = suggestions
	return &cp
}

// FieldError is a single input-validation rejection, attached to a dotted
// path into the raw input (e.g. "items.2.price").
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationDetails groups FieldErrors by dotted path into the wire shape
// Validation errors carry: details: map<dotted-field-path, list<message>>.
func ValidationDetails(fields []FieldError) map[string]any {
	grouped := make(map[string][]string)
	for _, f := range fields {
		grouped[f.Path] = append(grouped[f.Path], f.Message)
	}
	details := make(map[string]any, len(grouped))
	for path, messages := range grouped {
		details[path] = messages
	}
	return details
}

// ValidationFailed builds the canonical {code: ValidationError, message:
// "Validation failed", details: groupedByPath} error the executor returns
// on input-validation rejection.
func ValidationFailed(fields []FieldError) *Error {
	return &Error{
		Code:    Validation,
		Message: "Validation failed",
		Details: ValidationDetails(fields),
	}
}

// NotFoundWithSuggestions builds the canonical NotFound error, carrying
// suggestions in the order given (the router's suggest.go ranks them by
// descending similarity before calling this).
func NotFoundWithSuggestions(path string, suggestions []string) *Error {
	return &Error{
		Code:        NotFound,
		Message:     "Procedure not found: " + path,
		Path:        path,
		Suggestions: suggestions,
	}
}

// InternalError builds the generic Internal error value that never leaks
// validator or stack detail unless the caller attaches it explicitly via
// WithDetails (gated, at the call site, on include_exception_details).
func InternalError(message string) *Error {
	return &Error{Code: Internal, Message: message}
}

// HTTPStatuser is an optional interface a transport may use to map a Kind
// to a wire status without this package importing net/http.
type HTTPStatuser interface {
	HTTPStatus() int
}

// HTTPStatus implements HTTPStatuser with the conventional RPC-framework
// mapping (roughly tRPC's TRPC_ERROR_CODE_HTTP_STATUS table).
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case NotFound:
		return 404
	case InvalidPath:
		return 400
	case Validation:
		return 422
	case Timeout:
		return 504
	case BatchTooLarge:
		return 413
	case Internal:
		return 500
	default:
		return 500
	}
}

// Format renders a multi-field validation error as a single human-readable
// line, grouping messages by path.
func (e *Error) Format() string {
	if e.Code != Validation || len(e.Details) == 0 {
		return e.Error()
	}

	paths := make([]string, 0, len(e.Details))
	for path := range e.Details {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString(": ")
	for i, path := range paths {
		if i > 0 {
			b.WriteString("; ")
		}
		msgs, _ := e.Details[path].([]string)
		b.WriteString(path)
		b.WriteString(" (")
		b.WriteString(strings.Join(msgs, ", "))
		b.WriteString(")")
	}
	return b.String()
}
