// Package scanner extracts the two load-bearing signals from captured
// typesetting output: missing-file notes and rerun warnings.
//
// Scraping diagnostic text is fragile against engine upgrades, so the string
// constants live only here; a structured mechanism can replace this package
// without touching the recipes.
package scanner

import "strings"

// missingFileMarker precedes the name of a file the engine looked for and
// could not find, e.g. "No file notes.bbl.".
const missingFileMarker = "No file "

// rerunWarnings indicate stale cross-references; any of them means the
// current pass must be repeated.
var rerunWarnings = []string{
	"LaTeX Warning: Label(s) may have changed",
	"LaTeX Warning: There were undefined references",
}

// MissingFiles returns every file name mentioned after a missing-file marker,
// with the trailing punctuation of the note stripped.
func MissingFiles(out string) []string {
	var files []string
	for {
		i := strings.Index(out, missingFileMarker)
		if i < 0 {
			return files
		}
		out = out[i+len(missingFileMarker):]

		name := out
		if j := strings.IndexByte(name, '\n'); j >= 0 {
			name = name[:j]
		}
		name = strings.TrimSuffix(strings.TrimRight(name, "\r"), ".")
		if name != "" {
			files = append(files, name)
		}
	}
}

// NeedsRerun reports whether the output contains a stale-reference warning.
func NeedsRerun(out string) bool {
	for _, w := range rerunWarnings {
		if strings.Contains(out, w) {
			return true
		}
	}
	return false
}
