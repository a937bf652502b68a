package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w
}

func TestCreateDataset(t *testing.T) {
	w := newTestWorkspace(t)

	ds, err := w.CreateDataset("My First Experiment")
	if err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}
	if ds.Name != "My First Experiment" {
		t.Errorf("name = %q", ds.Name)
	}
	if ds.URI != "my-first-experiment" {
		t.Errorf("uri = %q, want slugged name", ds.URI)
	}

	if _, err := os.Stat(filepath.Join(w.DatasetDir(ds.URI), InfoFileName)); err != nil {
		t.Errorf("info.json not written: %v", err)
	}
}

func TestCreateDatasetDuplicate(t *testing.T) {
	w := newTestWorkspace(t)

	if _, err := w.CreateDataset("exp"); err != nil {
		t.Fatalf("CreateDataset: %v", err)
	}
	_, err := w.CreateDataset("exp")
	if !errors.Is(err, ErrDuplicateDataset) {
		t.Errorf("err = %v, want ErrDuplicateDataset", err)
	}

	// Names that slug to the same URI also collide.
	_, err = w.CreateDataset("EXP")
	if !errors.Is(err, ErrDuplicateDataset) {
		t.Errorf("err = %v, want ErrDuplicateDataset for slug collision", err)
	}
}

func TestGetDataset(t *testing.T) {
	w := newTestWorkspace(t)
	created, err := w.CreateDataset("exp")
	if err != nil {
		t.Fatal(err)
	}

	got, err := w.GetDataset(created.URI)
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if got != created {
		t.Errorf("GetDataset = %+v, want %+v", got, created)
	}

	if _, err := w.GetDataset("ghost"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("err = %v, want ErrDatasetNotFound", err)
	}
}

func TestDatasetsListing(t *testing.T) {
	w := newTestWorkspace(t)
	if _, err := w.CreateDataset("beta"); err != nil {
		t.Fatal(err)
	}
	if _, err := w.CreateDataset("alpha"); err != nil {
		t.Fatal(err)
	}
	// A stray directory without info.json is ignored.
	if err := os.Mkdir(filepath.Join(w.Root(), "junk"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := w.Datasets()
	if err != nil {
		t.Fatalf("Datasets: %v", err)
	}
	if len(got) != 2 || got[0].URI != "alpha" || got[1].URI != "beta" {
		t.Errorf("Datasets = %+v", got)
	}
}

func TestRemoveRollsBack(t *testing.T) {
	w := newTestWorkspace(t)
	ds, err := w.CreateDataset("doomed")
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Remove(ds.URI); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := w.GetDataset(ds.URI); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("dataset still present after Remove")
	}

	// The URI is free again.
	if _, err := w.CreateDataset("doomed"); err != nil {
		t.Errorf("recreate after Remove: %v", err)
	}
}

func TestDescriptionRoundTrip(t *testing.T) {
	w := newTestWorkspace(t)
	ds, err := w.CreateDataset("exp")
	if err != nil {
		t.Fatal(err)
	}

	// Without a description file, reads yield an empty map.
	desc, err := w.GetDescription(ds.URI)
	if err != nil {
		t.Fatalf("GetDescription: %v", err)
	}
	if len(desc) != 0 {
		t.Errorf("initial description = %v, want empty", desc)
	}

	want := map[string]any{"author": "jane", "runs": float64(3)}
	if err := w.SetDescription(ds.URI, want); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	got, err := w.GetDescription(ds.URI)
	if err != nil {
		t.Fatalf("GetDescription: %v", err)
	}
	if got["author"] != "jane" || got["runs"] != float64(3) {
		t.Errorf("description = %v, want %v", got, want)
	}

	if err := w.SetDescription("ghost", want); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("err = %v, want ErrDatasetNotFound", err)
	}
}

func TestWorkspaceConfig(t *testing.T) {
	w := newTestWorkspace(t)

	cfg, err := w.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig (missing file): %v", err)
	}
	if cfg.DefaultDataset != "" {
		t.Errorf("zero config expected, got %+v", cfg)
	}

	cfg.Description = "imaging runs"
	cfg.DefaultDataset = "exp"
	if err := w.SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := w.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Description != "imaging runs" || got.DefaultDataset != "exp" {
		t.Errorf("config = %+v", got)
	}
}
