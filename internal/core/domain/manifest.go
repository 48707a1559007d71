package domain

import "time"

// Manifest records what one document build generated, so a later clean can
// sweep without rebuilding first.
type Manifest struct {
	// Document is the primary source file the outputs belong to.
	Document string `json:"document"`
	// Fingerprint is the xxhash of the document at build time, formatted as
	// 16 hex digits.
	Fingerprint string `json:"fingerprint"`
	// Outputs are the recorded output files and directories.
	Outputs []string `json:"outputs"`
	// Timestamp is when the build finished.
	Timestamp time.Time `json:"timestamp"`
}
