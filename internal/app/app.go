// Package app implements the application layer for texmk.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.trai.ch/texmk/internal/adapters/config"
	"go.trai.ch/texmk/internal/adapters/manifest"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
	"go.trai.ch/texmk/internal/engine/queue"
	"go.trai.ch/zerr"
)

// Options are the per-invocation build settings.
type Options struct {
	// DVI builds dvi targets instead of pdf, overriding the config.
	DVI bool
	// Clean sweeps the recorded outputs after the build.
	Clean bool
}

// App drives document builds and cleanup.
type App struct {
	registry     *domain.Registry
	configLoader *config.Loader
	store        ports.ManifestStore
	logger       ports.Logger
	telemetry    ports.Telemetry
}

// New creates a new App instance.
func New(
	registry *domain.Registry,
	loader *config.Loader,
	store ports.ManifestStore,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		registry:     registry,
		configLoader: loader,
		store:        store,
		logger:       logger,
		telemetry:    telemetry,
	}
}

// Run builds every given document, or every .tex file in the working
// directory when none are given. A failing document is reported and the
// batch continues with its siblings; the joined error is returned at the
// end.
func (a *App) Run(ctx context.Context, files []string, opts Options) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return err
	}

	ext := cfg.Engine
	if opts.DVI {
		ext = "dvi"
	}

	files, err = resolveDocuments(files)
	if err != nil {
		return err
	}

	var errs error
	for _, doc := range files {
		outputs, buildErr := a.Build(ctx, doc, ext)
		a.record(doc, outputs)
		if buildErr != nil {
			a.logger.Error(buildErr)
			errs = errors.Join(errs, zerr.With(zerr.Wrap(buildErr, "build failed"), "document", doc))
		}
	}

	if opts.Clean {
		errs = errors.Join(errs, a.Clean(ctx, files))
	}
	return errs
}

// Build drains one document to convergence and returns the recorded output
// set. The queue is fresh per document; nothing leaks between builds.
func (a *App) Build(ctx context.Context, doc, ext string) ([]string, error) {
	q := queue.New(a.registry, a.logger, a.telemetry)
	if err := q.Insert(domain.ReplaceSuffix(doc, "tex", ext), doc); err != nil {
		return nil, err
	}
	err := q.Drain(ctx)

	outputs := q.Outputs()
	sort.Strings(outputs)
	return outputs, err
}

// Clean removes the recorded outputs of the given documents (or of every
// .tex file in the working directory), protecting the final artifacts. It
// sweeps from the persisted manifest when one exists and falls back to a
// full build otherwise, since without a record there is no way to know what
// was generated.
func (a *App) Clean(ctx context.Context, files []string) error {
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return err
	}
	protect := append([]string{"pdf", "dvi"}, cfg.Protect...)

	files, err = resolveDocuments(files)
	if err != nil {
		return err
	}

	var errs error
	for _, doc := range files {
		m, err := a.store.Get(doc)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		var outputs []string
		if m != nil {
			outputs = m.Outputs
		} else {
			outputs, err = a.Build(ctx, doc, cfg.Engine)
			if err != nil {
				errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "build before clean failed"), "document", doc))
				continue
			}
		}

		a.sweep(outputs, protect)
		if err := a.store.Delete(doc); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// record persists the build's output set so a later clean can sweep without
// rebuilding. Persisting is best effort; a failure must not fail the build.
func (a *App) record(doc string, outputs []string) {
	if len(outputs) == 0 {
		return
	}
	fingerprint, err := manifest.Fingerprint(doc)
	if err != nil {
		fingerprint = ""
	}
	err = a.store.Put(domain.Manifest{
		Document:    doc,
		Fingerprint: fingerprint,
		Outputs:     outputs,
		Timestamp:   time.Now(),
	})
	if err != nil {
		a.logger.Warn(fmt.Sprintf("could not record outputs for %s: %v", doc, err))
	}
}

// sweep removes generated files, protecting the given suffixes. A file that
// will not go away as a file is retried as a directory (the plot directory
// case); remaining failures are logged, not fatal.
func (a *App) sweep(outputs, protect []string) {
	for _, path := range outputs {
		if protected(path, protect) {
			continue
		}
		if err := os.Remove(path); err != nil {
			if err := os.RemoveAll(path); err != nil {
				a.logger.Warn(fmt.Sprintf("could not remove %s: %v", path, err))
				continue
			}
		}
		a.logger.Info("removed " + path)
	}
}

func protected(path string, protect []string) bool {
	name := filepath.Base(path)
	for _, suffix := range protect {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// resolveDocuments falls back to every .tex file in the working directory
// when no documents were given.
func resolveDocuments(files []string) ([]string, error) {
	if len(files) > 0 {
		return files, nil
	}
	matches, err := filepath.Glob("*.tex")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to scan for documents")
	}
	if len(matches) == 0 {
		return nil, zerr.New("no .tex documents found")
	}
	sort.Strings(matches)
	return matches, nil
}
