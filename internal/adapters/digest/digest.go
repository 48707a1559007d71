// Package digest implements the content-addressed skip decision for the
// algebra preprocessor.
//
// Sage is expensive and not idempotent (plot files are regenerated, session
// state is rebuilt), so it must only rerun when the .sagetex.sage source
// changed in substance. sagetex embeds an md5 checksum of the source into the
// .sout it writes; if the previous output already carries the checksum of the
// current source, the run can be skipped.
package digest

import (
	"bufio"
	"crypto/md5" //nolint:gosec // checksum format fixed by sagetex, not security relevant
	"fmt"
	"os"
	"strings"

	"go.trai.ch/zerr"
)

// volatilePrefixes start the lines sagetex rewrites on every run regardless
// of semantic content (line-number bookkeeping and its own banner). They are
// excluded from the digest, matching what sagetex itself checksums.
var volatilePrefixes = []string{
	" _st_.goboom",
	"print('SageT",
}

// Tag computes the checksum of the source file and formats it the way
// sagetex embeds it into its output: %<32 hex digits>% md5sum.
func Tag(sourcePath string) (string, error) {
	f, err := os.Open(sourcePath) //nolint:gosec // path derives from the build target
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open source"), "path", sourcePath)
	}
	defer f.Close() //nolint:errcheck // read-only file

	h := md5.New() //nolint:gosec // see package comment
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Text()
		if volatile(line) {
			continue
		}
		_, _ = fmt.Fprintln(h, line)
	}
	if err := s.Err(); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to read source"), "path", sourcePath)
	}

	return fmt.Sprintf("%%%x%% md5sum", h.Sum(nil)), nil
}

// UpToDate reports whether the previous output at outPath already contains
// the digest tag of the source at sourcePath. Any failure to compute or
// probe the digest means "rebuild": skipping is an optimization, never worth
// risking a stale result over.
func UpToDate(sourcePath, outPath string) bool {
	tag, err := Tag(sourcePath)
	if err != nil {
		return false
	}

	f, err := os.Open(outPath) //nolint:gosec // path derives from the build target
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck // read-only file

	s := bufio.NewScanner(f)
	for s.Scan() {
		if strings.HasPrefix(s.Text(), tag) {
			return true
		}
	}
	return false
}

func volatile(line string) bool {
	for _, p := range volatilePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
