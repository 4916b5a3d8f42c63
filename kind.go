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

// ProcedureKind tags a Definition as a query, mutation, or subscription.
type ProcedureKind uint8

const (
	// Query is an idempotent, safe-to-retry procedure.
	Query ProcedureKind = iota
	// Mutation is a non-idempotent, side-effecting procedure.
	Mutation
	// Subscription yields a lazy sequence — a handler returns a <-chan Event
	// that the transport adapter pumps to its subscribers.
	Subscription
)

// String renders the kind the way it appears in telemetry metadata and
// diagnostics ("query", "mutation", "subscription").
func (k ProcedureKind) String() string {
	switch k {
	case Query:
		return "query"
	case Mutation:
		return "mutation"
	case Subscription:
		return "subscription"
	default:
		return "unknown"
	}
}

// Event is the value type carried over a Subscription's result channel.
// A handler closes the channel when the stream ends; Err, if non-nil, is
// the terminal error and Value is meaningless in that element.
type Event struct {
	Value any
	Err   error
}
