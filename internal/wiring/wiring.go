// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/texmk/internal/adapters/config"
	_ "go.trai.ch/texmk/internal/adapters/logger"
	_ "go.trai.ch/texmk/internal/adapters/manifest"
	_ "go.trai.ch/texmk/internal/adapters/shell"
	_ "go.trai.ch/texmk/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/texmk/internal/app"
	_ "go.trai.ch/texmk/internal/engine/recipes"
)
