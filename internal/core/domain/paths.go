package domain

import "strings"

// ReplaceSuffix swaps a trailing suffix on path for another, e.g.
// ("notes.tex", "tex", "pdf") -> "notes.pdf". The path is returned unchanged
// when it does not end with old.
func ReplaceSuffix(path, old, new string) string {
	if old != "" && strings.HasSuffix(path, old) {
		return path[:len(path)-len(old)] + new
	}
	return path
}

// TrimSuffix removes a trailing suffix including its leading dot, e.g.
// ("notes.bbl", "bbl") -> "notes".
func TrimSuffix(path, suffix string) string {
	return strings.TrimSuffix(strings.TrimSuffix(path, suffix), ".")
}
