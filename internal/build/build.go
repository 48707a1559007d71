// Package build holds build-time information.
package build

// Version is the application version, overridden at link time via
// -ldflags "-X go.trai.ch/texmk/internal/build.Version=...".
var Version = "dev"
