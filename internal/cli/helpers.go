package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/datalocus/locus/internal/catalog"
	"github.com/datalocus/locus/internal/metadata"
	"github.com/datalocus/locus/internal/model"
	"github.com/datalocus/locus/internal/storage"
)

// uriArg converts a positional argument into a URI.
func uriArg(s string) model.URI {
	return model.URI(s)
}

// resolveDataset resolves a dataset argument. "." means the workspace's
// default dataset from locus.yaml.
func resolveDataset(c *catalog.Catalog, arg string) (model.Dataset, error) {
	if arg != "." {
		return c.GetDataset(uriArg(arg))
	}
	cfg, err := c.Workspace().LoadConfig()
	if err != nil {
		return model.Dataset{}, err
	}
	if cfg.DefaultDataset == "" {
		return model.Dataset{}, fmt.Errorf("no default dataset configured\n\nRun 'locus dataset default <uri>' to set one")
	}
	return c.GetDataset(model.URI(cfg.DefaultDataset))
}

// openCatalog opens the catalog over the resolved workspace.
// Caller is responsible for calling Close().
func openCatalog() (*catalog.Catalog, error) {
	return catalog.Open(getWorkspacePath())
}

// parseAnnotations parses key=value arguments into annotations.
// Values are parsed typed: "3" is an int, "1.5" a float, "true" a bool.
func parseAnnotations(args []string) (model.Annotations, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make(model.Annotations, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid annotation %q (expected key=value)", arg)
		}
		out[key] = model.ParseValue(raw)
	}
	return out, nil
}

// parseFilterArgs parses filter arguments for tuple and group queries.
// Each argument is one annotation set: "stain=dapi,channel=0".
func parseFilterArgs(args []string) ([]model.Annotations, error) {
	filters := make([]model.Annotations, 0, len(args))
	for _, arg := range args {
		pairs := strings.Split(arg, ",")
		anns, err := parseAnnotations(pairs)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", arg, err)
		}
		filters = append(filters, anns)
	}
	return filters, nil
}

// metadataStore opens the metadata sidecar store for a dataset.
func metadataStore(c *catalog.Catalog, ds model.Dataset) (*metadata.Local, error) {
	return metadata.NewLocal(filepath.Join(c.Workspace().DatasetDir(ds.URI), "metadata"))
}

// payloadStore opens the payload sidecar store for a dataset.
func payloadStore(c *catalog.Catalog, ds model.Dataset) (*storage.Local, error) {
	return storage.NewLocal(c.Workspace().DatasetDir(ds.URI))
}
