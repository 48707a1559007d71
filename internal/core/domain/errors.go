package domain

import "go.trai.ch/zerr"

var (
	// ErrToolFailed is returned when an external tool exits non-zero.
	ErrToolFailed = zerr.New("tool invocation failed")

	// ErrMalformedRecord is returned when a recorder file contains an
	// unrecognized directive or an unparseable line.
	ErrMalformedRecord = zerr.New("malformed recorder file")

	// ErrBadEncoding is returned when captured tool output is not valid text.
	ErrBadEncoding = zerr.New("tool output is not valid UTF-8")

	// ErrDidNotConverge is returned when a target is still requesting reruns
	// after the maximum number of passes.
	ErrDidNotConverge = zerr.New("build did not converge")

	// ErrAmbiguousDispatch is returned when two registered dispatch keys could
	// match the same file name.
	ErrAmbiguousDispatch = zerr.New("ambiguous recipe dispatch keys")

	// ErrNoRecipe is returned when no recipe is registered for a requested
	// top-level target.
	ErrNoRecipe = zerr.New("no recipe for target")
)
