// Package storage persists opaque data payloads for a dataset. The index
// never reads payloads; it only records the URIs this package hands out.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/datalocus/locus/internal/atomicfile"
)

// ErrNotFound is returned when a storage URI has no payload behind it.
var ErrNotFound = errors.New("stored payload not found")

// Store persists opaque payloads grouped by storage kind.
type Store interface {
	// Save writes payload under kind and returns the URI it was stored at.
	Save(kind string, payload []byte) (string, error)
	// Load returns the payload at uri, or ErrNotFound.
	Load(uri string) ([]byte, error)
	// Delete removes the payload at uri. Deleting a missing URI is an error.
	Delete(uri string) error
}

// Local lays payloads out as <root>/data/<kind>/<id>, with ids minted
// sequentially per kind and zero-padded so lexical order matches insertion
// order.
type Local struct {
	root string
	next map[string]int
}

var _ Store = (*Local)(nil)

const idWidth = 8

// NewLocal opens a local payload store rooted at dir, creating it if needed.
// Existing payloads are scanned so new ids continue the sequence.
func NewLocal(dir string) (*Local, error) {
	root := filepath.Join(dir, "data")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	l := &Local{root: root, next: make(map[string]int)}
	if err := l.scan(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Local) scan() error {
	kinds, err := os.ReadDir(l.root)
	if err != nil {
		return err
	}
	for _, kd := range kinds {
		if !kd.IsDir() {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(l.root, kd.Name()))
		if err != nil {
			return err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		sort.Strings(names)
		for i := len(names) - 1; i >= 0; i-- {
			n, err := strconv.Atoi(names[i])
			if err != nil {
				continue
			}
			l.next[kd.Name()] = n + 1
			break
		}
	}
	return nil
}

func (l *Local) Save(kind string, payload []byte) (string, error) {
	dir := filepath.Join(l.root, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s directory: %w", kind, err)
	}
	id := l.next[kind]
	l.next[kind] = id + 1
	name := fmt.Sprintf("%0*d", idWidth, id)
	if err := atomicfile.WriteFile(filepath.Join(dir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("writing payload: %w", err)
	}
	return "data/" + kind + "/" + name, nil
}

func (l *Local) Load(uri string) ([]byte, error) {
	p, err := l.resolve(uri)
	if err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", uri, ErrNotFound)
		}
		return nil, err
	}
	return payload, nil
}

func (l *Local) Delete(uri string) error {
	p, err := l.resolve(uri)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", uri, ErrNotFound)
		}
		return err
	}
	return nil
}

// resolve maps a URI back to a path under the store root, rejecting anything
// that would escape it.
func (l *Local) resolve(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, "data/")
	if !ok || rest == "" || strings.Contains(rest, "..") {
		return "", fmt.Errorf("%q: %w", uri, ErrNotFound)
	}
	return filepath.Join(l.root, filepath.FromSlash(rest)), nil
}
