package ports

import "go.trai.ch/texmk/internal/core/domain"

// ManifestStore persists per-document build manifests between runs.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ManifestStore interface {
	// Get retrieves the manifest for a document.
	// Returns nil, nil if not found.
	Get(document string) (*domain.Manifest, error)

	// Put stores the manifest, replacing any previous one for the document.
	Put(manifest domain.Manifest) error

	// Delete removes the manifest for a document. Deleting a missing entry is
	// not an error.
	Delete(document string) error
}
