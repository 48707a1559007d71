// Package shell provides the external tool runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.ToolRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes the invocation synchronously, capturing stdout and stderr.
// When the context carries a telemetry vertex, stdout is mirrored into it.
// A non-zero exit is reported as domain.ErrToolFailed with the exit code
// attached; the captured output is returned either way so callers can echo
// it for diagnosis.
func (r *Runner) Run(ctx context.Context, inv ports.Invocation) (ports.ExecResult, error) {
	var stdout, stderr bytes.Buffer

	r.logger.Info("exec: " + inv.Tool + " " + strings.Join(inv.Args, " "))

	cmd := exec.CommandContext(ctx, inv.Tool, inv.Args...) //nolint:gosec // recipe-provided command
	cmd.Dir = inv.Dir

	var out io.Writer = &stdout
	if vtx, ok := ports.VertexFromContext(ctx); ok {
		out = io.MultiWriter(&stdout, vtx.Stdout())
	}
	cmd.Stdout = out
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ports.ExecResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return res, zerr.With(zerr.With(zerr.Wrap(domain.ErrToolFailed, err.Error()),
		"tool", inv.Tool), "exit_code", exitCode)
}
