package recipes

import (
	"context"
	"path/filepath"
	"unicode/utf8"

	"go.trai.ch/texmk/internal/adapters/digest"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/zerr"
)

// Algebra runs the sage preprocessor on a .sagetex.sage file to produce the
// .sagetex.sout the next typesetting pass reads.
type Algebra struct {
	runner ports.ToolRunner
	logger ports.Logger
}

// NewAlgebra creates the sage action.
func NewAlgebra(runner ports.ToolRunner, logger ports.Logger) *Algebra {
	return &Algebra{runner: runner, logger: logger}
}

// Run invokes sage on the source and registers the generated script, command
// record and plot directory.
func (a *Algebra) Run(ctx context.Context, target string, sched domain.Scheduler) error {
	source := domain.ReplaceSuffix(target, "sout", "sage")
	a.logger.Info("running sage on " + source)

	res, err := a.runner.Run(ctx, ports.Invocation{
		Dir:  filepath.Dir(target),
		Tool: "sage",
		Args: []string{filepath.Base(source)},
	})
	if err != nil {
		echo(res)
		return err
	}
	if !utf8.Valid(res.Stdout) {
		return zerr.With(domain.ErrBadEncoding, "tool", "sage")
	}

	stem := domain.TrimSuffix(target, "sagetex.sout")
	sched.Output(target)
	sched.Output(source + ".py")
	sched.Output(stem + ".sagetex.scmd")
	sched.Output(filepath.Join(filepath.Dir(target), "sage-plots-for-"+filepath.Base(stem)+".tex"))
	return nil
}

// ShouldRun defers to the digest cache: sage is skipped when the previous
// output already carries the checksum of the current source, ignoring the
// volatile lines sagetex rewrites every run.
func (a *Algebra) ShouldRun(target string, _ domain.Scheduler) bool {
	source := domain.ReplaceSuffix(target, "sout", "sage")
	return !digest.UpToDate(source, target)
}
