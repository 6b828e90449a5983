// Copyright 2025 CineCraft, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the building blocks for the
// analysis pipelines. A Chain executes an ordered list of Commands; the
// Commands communicate through a shared Context that carries data, errors,
// and the set of temporary artifacts created along the way.
//
// The Context is also the single enforcement point for the one invariant the
// whole service depends on: every temporary file or directory registered with
// AddTempFile is removed when Close runs, no matter how the chain finished.
// Callers defer Close before the first command executes.
package cor

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys used by BaseChain to pipe the primary output
// of one command into the primary input of the next.
const (
	CtxIn  = "__IN__"
	CtxOut = "__OUT__"
)

// ErrMissingInput is recorded by a command whose required input is absent
// from the context or has the wrong type.
var ErrMissingInput = errors.New("required input missing from chain context")

// Context is the shared state object passed through a chain of commands.
// It acts as a property bag for a single pipeline execution.
type Context interface {
	// SetContext sets the standard Go context.Context used for cancellation
	// and trace propagation.
	SetContext(context context.Context)

	// GetContext retrieves the standard Go context.Context.
	GetContext() context.Context

	// Add stores a key-value pair. Returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records an error produced by a command, keyed by command name.
	AddError(key string, err error)

	// GetErrors returns all errors collected during the execution.
	GetErrors() map[string]error

	// Get retrieves a value by key, or nil.
	Get(key string) interface{}

	// Remove deletes a key-value pair.
	Remove(key string)

	// HasErrors reports whether any command recorded an error.
	HasErrors() bool

	// AddTempFile registers a temporary file or directory for deletion when
	// Close runs. Every code path that creates a transient artifact must
	// register it here.
	AddTempFile(file string)

	// GetTempFiles returns the registered temporary paths.
	GetTempFiles() []string

	// Close deletes all registered temporary artifacts. It is idempotent and
	// never fails the caller: individual deletion errors are logged and
	// skipped. Callers defer this at the start of a pipeline so that cleanup
	// runs on success, handled errors, and panics alike.
	Close()
}

// Executable is any object with a core execution step.
type Executable interface {
	// Execute runs the object's business logic against the shared Context,
	// reading its inputs from and writing its outputs into the bag.
	Execute(context Context)
}

// Command is an atomic, individually traceable unit of pipeline work.
type Command interface {
	Executable

	// GetName returns the command name used for logging and telemetry.
	GetName() string

	// GetInputParam returns the context key holding this command's input.
	GetInputParam() string

	// GetOutputParam returns the context key receiving this command's output.
	GetOutputParam() string

	// IsExecutable reports whether the context holds everything the command
	// needs. Checked by the chain before Execute.
	IsExecutable(context Context) bool

	// GetTracer returns the OpenTelemetry tracer for this command.
	GetTracer() trace.Tracer

	// GetMeter returns the OpenTelemetry meter for this command.
	GetMeter() metric.Meter

	// GetSuccessCounter returns the counter incremented on success.
	GetSuccessCounter() metric.Int64Counter

	// GetErrorCounter returns the counter incremented on failure.
	GetErrorCounter() metric.Int64Counter
}

// Chain is an ordered sequence of commands. A Chain is itself a Command, so
// chains can nest.
type Chain interface {
	Command

	// ContinueOnFailure configures whether later commands still run after an
	// earlier one records an error.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the execution sequence.
	AddCommand(command Command) Chain
}
