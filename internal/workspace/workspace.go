// Package workspace handles the on-disk layout of a workspace: a root
// directory holding one subdirectory per dataset.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gosimple/slug"

	"github.com/datalocus/locus/internal/atomicfile"
	"github.com/datalocus/locus/internal/model"
)

var (
	// ErrDuplicateDataset indicates a dataset directory with the same name
	// already exists.
	ErrDuplicateDataset = errors.New("dataset already exists")
	// ErrDatasetNotFound indicates no dataset directory for the given URI.
	ErrDatasetNotFound = errors.New("dataset not found")
)

// InfoFileName is the per-dataset name file.
const InfoFileName = "info.json"

// DescriptionFileName is the per-dataset metadata description file.
const DescriptionFileName = "description.json"

// Workspace is one workspace root directory.
type Workspace struct {
	root string
}

// Open opens a workspace root, creating the directory if needed.
func Open(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	return &Workspace{root: abs}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string {
	return w.root
}

// DatasetDir returns the directory of a dataset inside the workspace.
func (w *Workspace) DatasetDir(uri model.URI) string {
	return filepath.Join(w.root, uri.String())
}

// datasetInfo is the JSON shape of info.json.
type datasetInfo struct {
	Name string `json:"name"`
}

// CreateDataset provisions a dataset directory, derives its URI from the
// name, and writes the name file. The index itself is initialized by the
// caller; on index failure use Remove to roll the directory back.
func (w *Workspace) CreateDataset(name string) (model.Dataset, error) {
	uri := model.URI(slug.Make(name))
	dir := w.DatasetDir(uri)

	if _, err := os.Stat(dir); err == nil {
		return model.Dataset{}, fmt.Errorf("%q: %w", uri, ErrDuplicateDataset)
	} else if !errors.Is(err, os.ErrNotExist) {
		return model.Dataset{}, fmt.Errorf("failed to check dataset directory: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.Dataset{}, fmt.Errorf("failed to create dataset directory: %w", err)
	}

	payload, err := json.Marshal(datasetInfo{Name: name})
	if err != nil {
		return model.Dataset{}, err
	}
	if err := atomicfile.WriteFile(filepath.Join(dir, InfoFileName), payload, 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return model.Dataset{}, fmt.Errorf("failed to write dataset info: %w", err)
	}

	return model.Dataset{Name: name, URI: uri}, nil
}

// GetDataset reads a dataset's name file by URI.
func (w *Workspace) GetDataset(uri model.URI) (model.Dataset, error) {
	payload, err := os.ReadFile(filepath.Join(w.DatasetDir(uri), InfoFileName))
	if errors.Is(err, os.ErrNotExist) {
		return model.Dataset{}, fmt.Errorf("%q: %w", uri, ErrDatasetNotFound)
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read dataset info: %w", err)
	}

	var info datasetInfo
	if err := json.Unmarshal(payload, &info); err != nil {
		return model.Dataset{}, fmt.Errorf("invalid dataset info for %q: %w", uri, err)
	}
	return model.Dataset{Name: info.Name, URI: uri}, nil
}

// Remove deletes a dataset directory. Used to roll back a failed creation.
func (w *Workspace) Remove(uri model.URI) error {
	return os.RemoveAll(w.DatasetDir(uri))
}

// Datasets lists the datasets in the workspace, sorted by URI. Directories
// without an info.json are skipped.
func (w *Workspace) Datasets() ([]model.Dataset, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace: %w", err)
	}

	var out []model.Dataset
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ds, err := w.GetDataset(model.URI(entry.Name()))
		if errors.Is(err, ErrDatasetNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out, nil
}

// SetDescription writes a dataset's description document.
func (w *Workspace) SetDescription(uri model.URI, metadata map[string]any) error {
	if _, err := w.GetDataset(uri); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode description: %w", err)
	}
	path := filepath.Join(w.DatasetDir(uri), DescriptionFileName)
	if err := atomicfile.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("failed to write description: %w", err)
	}
	return nil
}

// GetDescription reads a dataset's description document. A dataset without
// one yields an empty map.
func (w *Workspace) GetDescription(uri model.URI) (map[string]any, error) {
	if _, err := w.GetDataset(uri); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(filepath.Join(w.DatasetDir(uri), DescriptionFileName))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("invalid description for %q: %w", uri, err)
	}
	return out, nil
}
