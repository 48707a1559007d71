// Package recipes implements the builtin recipe actions: typesetting,
// algebra preprocessing and bibliography.
package recipes

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"go.trai.ch/texmk/internal/adapters/recorder"
	"go.trai.ch/texmk/internal/adapters/scanner"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/zerr"
)

// sideSuffixes are the files a typesetting pass always generates next to the
// target, given the recorder and synctex flags.
var sideSuffixes = []string{".log", ".aux", ".fls", ".synctex.gz"}

// Typeset runs the typesetting engine on the primary document. One instance
// exists per target kind (pdf or dvi); both share the behavior and differ
// only in tool and flag spelling.
type Typeset struct {
	runner ports.ToolRunner
	logger ports.Logger
	tool   string
	args   []string
}

// NewPDF creates the pdflatex action. The flags request the file-activity
// recording and synctex files the engine feeds back into the queue.
func NewPDF(runner ports.ToolRunner, logger ports.Logger) *Typeset {
	return &Typeset{
		runner: runner,
		logger: logger,
		tool:   "pdflatex",
		args:   []string{"-recorder", "-file-line-error", "-interaction", "nonstopmode", "-synctex", "1"},
	}
}

// NewDVI creates the dvilualatex action.
func NewDVI(runner ports.ToolRunner, logger ports.Logger) *Typeset {
	return &Typeset{
		runner: runner,
		logger: logger,
		tool:   "dvilualatex",
		args:   []string{"--recorder", "--file-line-error", "--interaction=nonstopmode", "--synctex=1"},
	}
}

// Run invokes the engine on the primary document, registers the fixed side
// files, extracts the file-activity recording and scans the captured output
// for missing-file notes and rerun warnings.
func (t *Typeset) Run(ctx context.Context, target string, sched domain.Scheduler) error {
	doc := sched.Document()
	dir := filepath.Dir(doc)
	t.logger.Info("typesetting " + doc)

	res, err := t.runner.Run(ctx, ports.Invocation{
		Dir:  dir,
		Tool: t.tool,
		Args: append(slices.Clone(t.args), filepath.Base(doc)),
	})
	if err != nil {
		echo(res)
		return err
	}
	if !utf8.Valid(res.Stdout) {
		return zerr.With(domain.ErrBadEncoding, "tool", t.tool)
	}

	base := domain.TrimSuffix(doc, "tex")
	sched.Output(target)
	for _, suffix := range sideSuffixes {
		sched.Output(base + suffix)
	}

	if err := recorder.ExtractFile(base+".fls", sched); err != nil {
		return err
	}

	out := string(res.Stdout)
	for _, missing := range scanner.MissingFiles(out) {
		sched.Needs(filepath.Join(dir, missing))
	}
	if scanner.NeedsRerun(out) {
		sched.Rerun()
	}
	return nil
}

// ShouldRun gates passes triggered through dependency tracking: the source
// must exist, and the target must be missing or older than the source. The
// recording mentions every read file, including generated graphics whose
// names end in the dispatch key; those have no source and are skipped here.
// The top-level entry point bypasses this predicate entirely.
func (t *Typeset) ShouldRun(target string, _ domain.Scheduler) bool {
	source := domain.ReplaceSuffix(target, filepath.Ext(target), ".tex")
	srcInfo, err := os.Stat(source)
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(target)
	if err != nil {
		return true
	}
	return srcInfo.ModTime().After(dstInfo.ModTime())
}

// echo writes a failed tool's captured output to the process stdout so the
// invocation can be diagnosed without rerunning it manually.
func echo(res ports.ExecResult) {
	_, _ = os.Stdout.Write(res.Stdout)
	_, _ = os.Stdout.Write(res.Stderr)
}
