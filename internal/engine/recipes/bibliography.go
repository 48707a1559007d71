package recipes

import (
	"context"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/zerr"
)

// Bibliography runs bibtex to produce a .bbl from the .aux the preceding
// typesetting pass wrote.
type Bibliography struct {
	runner ports.ToolRunner
	logger ports.Logger
}

// NewBibliography creates the bibtex action.
func NewBibliography(runner ports.ToolRunner, logger ports.Logger) *Bibliography {
	return &Bibliography{runner: runner, logger: logger}
}

// Run invokes bibtex on the target's base name and registers the produced
// bibliography and its log.
func (b *Bibliography) Run(ctx context.Context, target string, sched domain.Scheduler) error {
	base := domain.TrimSuffix(target, "bbl")
	b.logger.Info("building bibliography for " + base)

	res, err := b.runner.Run(ctx, ports.Invocation{
		Dir:  filepath.Dir(target),
		Tool: "bibtex",
		Args: []string{filepath.Base(base)},
	})
	if err != nil {
		echo(res)
		return err
	}
	if !utf8.Valid(res.Stdout) {
		return zerr.With(domain.ErrBadEncoding, "tool", "bibtex")
	}

	sched.Output(target)
	sched.Output(base + ".blg")
	return nil
}

// ShouldRun reports true only while the bibliography does not exist yet.
// The .aux is rewritten by every typesetting pass, so comparing file times
// against it would request bibtex passes forever; once a .bbl exists, stale
// cross-references are the typesetting recipe's rerun warning to handle.
func (b *Bibliography) ShouldRun(target string, _ domain.Scheduler) bool {
	_, err := os.Stat(target)
	return err != nil
}
