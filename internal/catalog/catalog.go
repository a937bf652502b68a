// Package catalog is the public facade over a workspace of datasets. It
// owns one lazily opened index connection per dataset, cached for the
// lifetime of the catalog, and orchestrates the store, query engine, and
// view builder behind a typed API.
//
// The catalog performs no internal locking: concurrent callers against the
// same dataset must serialize externally.
package catalog

import (
	"errors"
	"fmt"

	"github.com/datalocus/locus/internal/index"
	"github.com/datalocus/locus/internal/model"
	"github.com/datalocus/locus/internal/workspace"
)

// ErrAmbiguousQuery indicates both an annotation filter and a location
// filter were supplied to a query that accepts only one of the two.
var ErrAmbiguousQuery = errors.New("annotation and location filters are mutually exclusive")

// Catalog is the facade over one workspace.
type Catalog struct {
	ws    *workspace.Workspace
	conns map[model.URI]*index.Database
}

// Open opens a catalog over the workspace root, creating it if needed.
func Open(workspaceRoot string) (*Catalog, error) {
	ws, err := workspace.Open(workspaceRoot)
	if err != nil {
		return nil, err
	}
	return &Catalog{ws: ws, conns: make(map[model.URI]*index.Database)}, nil
}

// Workspace exposes the underlying workspace for directory-level operations.
func (c *Catalog) Workspace() *workspace.Workspace {
	return c.ws
}

// Close releases every cached index connection. The catalog must not be
// used afterwards.
func (c *Catalog) Close() error {
	var firstErr error
	for uri, db := range c.conns {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close index of %q: %w", uri, err)
		}
		delete(c.conns, uri)
	}
	return firstErr
}

// connection returns the cached index for a dataset, opening it on first
// access. The dataset must exist in the workspace.
func (c *Catalog) connection(uri model.URI) (*index.Database, error) {
	if db, ok := c.conns[uri]; ok {
		return db, nil
	}

	if _, err := c.ws.GetDataset(uri); err != nil {
		return nil, err
	}
	db, err := index.Open(c.ws.DatasetDir(uri))
	if err != nil {
		return nil, err
	}
	c.conns[uri] = db
	return db, nil
}

// NewDataset provisions a dataset directory and initializes its index. A
// schema-initialization failure rolls the directory back so no
// half-initialized dataset is left behind.
func (c *Catalog) NewDataset(name string) (model.Dataset, error) {
	ds, err := c.ws.CreateDataset(name)
	if err != nil {
		return model.Dataset{}, err
	}

	db, err := index.Open(c.ws.DatasetDir(ds.URI))
	if err != nil {
		_ = c.ws.Remove(ds.URI)
		return model.Dataset{}, fmt.Errorf("failed to initialize dataset %q: %w", ds.URI, err)
	}
	c.conns[ds.URI] = db
	return ds, nil
}

// GetDataset reads a dataset's info by URI.
func (c *Catalog) GetDataset(uri model.URI) (model.Dataset, error) {
	return c.ws.GetDataset(uri)
}

// Datasets lists the datasets in the workspace.
func (c *Catalog) Datasets() ([]model.Dataset, error) {
	return c.ws.Datasets()
}

// SetDescription writes a dataset's description document.
func (c *Catalog) SetDescription(ds model.Dataset, metadata map[string]any) error {
	return c.ws.SetDescription(ds.URI, metadata)
}

// GetDescription reads a dataset's description document.
func (c *Catalog) GetDescription(ds model.Dataset) (map[string]any, error) {
	return c.ws.GetDescription(ds.URI)
}

// Stats summarizes a dataset's index contents.
func (c *Catalog) Stats(ds model.Dataset) (index.Stats, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return index.Stats{}, err
	}
	return db.Stats()
}

// toFilter lowers canonicalized annotations into the engine's filter shape.
func toFilter(annotations model.Annotations) index.Filter {
	if annotations == nil {
		return nil
	}
	filter := make(index.Filter, len(annotations))
	for key, value := range annotations {
		filter[key] = value.Text
	}
	return filter
}
