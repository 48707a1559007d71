// Package ports defines the core interfaces for the application.
package ports

import "context"

// Invocation describes one external tool run.
type Invocation struct {
	// Dir is the working directory for the tool; empty means the current one.
	Dir string
	// Tool is the executable name, resolved via PATH.
	Tool string
	// Args are the command line arguments.
	Args []string
}

// ExecResult carries the captured output of a tool run. It is populated even
// when the run failed, so callers can echo the output for diagnosis.
type ExecResult struct {
	Stdout []byte
	Stderr []byte
}

// ToolRunner executes external tools synchronously to completion.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type ToolRunner interface {
	// Run executes the invocation and returns its captured output. A non-zero
	// exit is reported as an error wrapping domain.ErrToolFailed; the result
	// is still valid in that case.
	Run(ctx context.Context, inv Invocation) (ExecResult, error)
}
