// Package manifest persists per-document build manifests in a flat JSON
// file, letting a later clean sweep recorded outputs without rebuilding.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"

	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/zerr"
)

// DefaultPath is where the store lives unless configured otherwise.
const DefaultPath = ".texmk-manifest.json"

// Store implements ports.ManifestStore using a flat JSON file.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.Manifest
}

// NewStore creates a manifest store backed by the file at the given path.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.Manifest),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read manifest store")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal manifest store")
	}
	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal manifest store")
	}

	//nolint:gosec // path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write manifest store")
	}
	return nil
}

// Get retrieves the manifest for a document. Returns nil, nil if not found.
func (s *Store) Get(document string) (*domain.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.cache[document]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// Put stores the manifest.
func (s *Store) Put(m domain.Manifest) error {
	s.mu.Lock()
	s.cache[m.Document] = m
	s.mu.Unlock()

	return s.save()
}

// Delete removes the manifest for a document.
func (s *Store) Delete(document string) error {
	s.mu.Lock()
	delete(s.cache, document)
	s.mu.Unlock()

	return s.save()
}

// Fingerprint computes the xxhash of the file at path, formatted as 16 hex
// digits, for recording in a manifest.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // path is the user's document
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // read-only file

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file"), "path", path)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
