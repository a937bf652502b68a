// Package metadata stores free-form JSON documents alongside a dataset's
// index. Documents are keyed by opaque URIs minted at creation time; the
// index only ever records the URI.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/datalocus/locus/internal/atomicfile"
)

// ErrNotFound is returned when a metadata URI has no document behind it.
var ErrNotFound = errors.New("metadata document not found")

// Store persists JSON metadata documents keyed by opaque URIs.
type Store interface {
	// Create mints a new URI and writes doc under it.
	Create(doc map[string]any) (string, error)
	// Write replaces the document at uri.
	Write(uri string, doc map[string]any) error
	// Read returns the document at uri, or ErrNotFound.
	Read(uri string) (map[string]any, error)
	// Delete removes the document at uri. Deleting a missing URI is an error.
	Delete(uri string) error
}

// Local stores documents as uuid-named JSON files in a single directory.
type Local struct {
	dir string
}

var _ Store = (*Local)(nil)

// NewLocal opens a local metadata store rooted at dir, creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating metadata directory: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) path(uri string) string {
	return filepath.Join(l.dir, uri+".json")
}

func (l *Local) Create(doc map[string]any) (string, error) {
	uri := uuid.NewString()
	if err := l.write(uri, doc); err != nil {
		return "", err
	}
	return uri, nil
}

func (l *Local) Write(uri string, doc map[string]any) error {
	if _, err := os.Stat(l.path(uri)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", uri, ErrNotFound)
		}
		return err
	}
	return l.write(uri, doc)
}

func (l *Local) write(uri string, doc map[string]any) error {
	if doc == nil {
		doc = map[string]any{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata document: %w", err)
	}
	if err := atomicfile.WriteFile(l.path(uri), data, 0o644); err != nil {
		return fmt.Errorf("writing metadata document: %w", err)
	}
	return nil
}

func (l *Local) Read(uri string) (map[string]any, error) {
	data, err := os.ReadFile(l.path(uri))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", uri, ErrNotFound)
		}
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding metadata document %q: %w", uri, err)
	}
	return doc, nil
}

func (l *Local) Delete(uri string) error {
	if err := os.Remove(l.path(uri)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", uri, ErrNotFound)
		}
		return err
	}
	return nil
}
