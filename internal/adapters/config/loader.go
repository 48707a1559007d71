// Package config provides the optional .texmk.yaml loader.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the configuration file looked up in the working
// directory.
const DefaultFilename = ".texmk.yaml"

// Config holds the build defaults a project may override.
type Config struct {
	// Engine selects the typesetting target kind: "pdf" (default) or "dvi".
	Engine string `yaml:"engine"`
	// Protect lists extra file-name suffixes the clean sweep must never
	// remove, in addition to the built-in pdf and dvi protection.
	Protect []string `yaml:"protect"`
	// Manifest overrides where the output manifest is stored.
	Manifest string `yaml:"manifest"`
}

// Loader implements config loading from a YAML file.
type Loader struct {
	Filename string
}

// NewLoader creates a Loader for the default filename.
func NewLoader() *Loader {
	return &Loader{Filename: DefaultFilename}
}

// Load reads the configuration from the given working directory. A missing
// file yields the defaults.
func (l *Loader) Load(cwd string) (Config, error) {
	cfg := Config{Engine: "pdf"}

	path := filepath.Join(cwd, l.Filename)
	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}

	if cfg.Engine == "" {
		cfg.Engine = "pdf"
	}
	if cfg.Engine != "pdf" && cfg.Engine != "dvi" {
		return cfg, zerr.With(zerr.New("unknown engine"), "engine", cfg.Engine)
	}
	return cfg, nil
}
