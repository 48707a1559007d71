// Package recorder parses the file-activity recording the typesetting engine
// emits when run with -recorder (the .fls file).
//
// The format is line oriented: PWD, INPUT and OUTPUT directives, each
// followed by a path. PWD establishes the directory relative paths resolve
// against. The directive set is assumed exhaustively known; anything else
// means the engine's output format changed and parsing fails hard.
package recorder

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/zerr"
)

// ExtractFile parses the recording at path and feeds every INPUT directive to
// sched.Needs and every OUTPUT directive to sched.Output. A missing recording
// is not an error: the tool then simply reported no dependencies.
func ExtractFile(path string, sched domain.Scheduler) error {
	f, err := os.Open(path) //nolint:gosec // path derives from the build target
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to open recording"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return Extract(f, sched)
}

// Extract parses a recording from r.
func Extract(r io.Reader, sched domain.Scheduler) error {
	cwd := "."
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		directive, path, ok := strings.Cut(text, " ")
		if !ok || path == "" {
			return zerr.With(zerr.With(domain.ErrMalformedRecord,
				"line", line), "text", text)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}

		switch directive {
		case "PWD":
			cwd = path
		case "INPUT":
			sched.Needs(path)
		case "OUTPUT":
			sched.Output(path)
		default:
			return zerr.With(zerr.With(domain.ErrMalformedRecord,
				"line", line), "directive", directive)
		}
	}
	if err := scanner.Err(); err != nil {
		return zerr.Wrap(err, "failed to read recording")
	}
	return nil
}
