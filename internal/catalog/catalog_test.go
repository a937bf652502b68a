package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/datalocus/locus/internal/index"
	"github.com/datalocus/locus/internal/model"
	"github.com/datalocus/locus/internal/workspace"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func anns(t *testing.T, raw map[string]any) model.Annotations {
	t.Helper()
	out, err := model.NewAnnotations(raw)
	if err != nil {
		t.Fatalf("NewAnnotations: %v", err)
	}
	return out
}

func TestNewDatasetCreatesIndex(t *testing.T) {
	c := newTestCatalog(t)

	ds, err := c.NewDataset("My Experiment")
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	if ds.URI != "my-experiment" {
		t.Errorf("uri = %q", ds.URI)
	}

	indexPath := filepath.Join(c.Workspace().DatasetDir(ds.URI), index.IndexFileName)
	if _, err := os.Stat(indexPath); err != nil {
		t.Errorf("index file not created: %v", err)
	}

	_, err = c.NewDataset("My Experiment")
	if !errors.Is(err, workspace.ErrDuplicateDataset) {
		t.Errorf("err = %v, want ErrDuplicateDataset", err)
	}
}

func TestGetDatasetRoundTrip(t *testing.T) {
	c := newTestCatalog(t)
	created, err := c.NewDataset("exp")
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.GetDataset(created.URI)
	if err != nil {
		t.Fatalf("GetDataset: %v", err)
	}
	if got != created {
		t.Errorf("GetDataset = %+v, want %+v", got, created)
	}
}

func TestConnectionCachedPerDataset(t *testing.T) {
	c := newTestCatalog(t)
	ds, err := c.NewDataset("exp")
	if err != nil {
		t.Fatal(err)
	}

	db1, err := c.connection(ds.URI)
	if err != nil {
		t.Fatalf("connection: %v", err)
	}
	db2, err := c.connection(ds.URI)
	if err != nil {
		t.Fatalf("connection (cached): %v", err)
	}
	if db1 != db2 {
		t.Error("second lookup opened a new connection instead of the cached one")
	}

	if _, err := c.connection("ghost"); !errors.Is(err, workspace.ErrDatasetNotFound) {
		t.Errorf("err = %v, want ErrDatasetNotFound", err)
	}
}

func TestCloseReleasesConnections(t *testing.T) {
	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ds, err := c.NewDataset("exp")
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Closing twice is harmless: the cache is drained on the first call.
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	// A fresh catalog over the same workspace reopens the dataset.
	c2, err := Open(c.Workspace().Root())
	if err != nil {
		t.Fatal(err)
	}
	defer c2.Close()
	if _, err := c2.QueryLocations(ds, nil); err != nil {
		t.Errorf("reopen after Close: %v", err)
	}
}

func TestNewLocationWithAnnotations(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")

	loc, err := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi", "well": 3}))
	if err != nil {
		t.Fatalf("NewLocation: %v", err)
	}

	got, err := c.QueryLocations(ds, anns(t, map[string]any{"stain": "dapi", "well": 3}))
	if err != nil {
		t.Fatalf("QueryLocations: %v", err)
	}
	if len(got) != 1 || got[0].ID != loc.ID {
		t.Errorf("QueryLocations = %+v, want [%d]", got, loc.ID)
	}
}

func TestQueryLocationSupersetLaw(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")

	filter := map[string]any{"stain": "dapi", "channel": 0}
	match, err := c.NewLocation(ds, anns(t, filter))
	if err != nil {
		t.Fatal(err)
	}
	// Strict subset never satisfies the superset query.
	if _, err := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi"})); err != nil {
		t.Fatal(err)
	}

	got, err := c.QueryLocations(ds, anns(t, filter))
	if err != nil {
		t.Fatalf("QueryLocations: %v", err)
	}
	if len(got) != 1 || got[0].ID != match.ID {
		t.Errorf("QueryLocations = %+v, want exactly the fully annotated location", got)
	}
}

func TestQueryLocationsEmptyFilterReturnsAll(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	if _, err := c.NewLocation(ds, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi"})); err != nil {
		t.Fatal(err)
	}

	got, err := c.QueryLocations(ds, nil)
	if err != nil {
		t.Fatalf("QueryLocations: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("QueryLocations = %+v, want both locations", got)
	}
}

func TestCreateDataAndQuery(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi"}))

	info, err := c.CreateData(loc, "uri1", index.StorageImage,
		anns(t, map[string]any{"channel": 0}), "meta1")
	if err != nil {
		t.Fatalf("CreateData: %v", err)
	}
	if info.StorageType != index.StorageImage || info.MetadataURI != "meta1" {
		t.Errorf("info = %+v", info)
	}

	got, err := c.QueryData(ds, DataQuery{Annotations: anns(t, map[string]any{"stain": "dapi", "channel": 0})})
	if err != nil {
		t.Fatalf("QueryData: %v", err)
	}
	if len(got) != 1 || got[0].URI != "uri1" {
		t.Errorf("QueryData = %+v, want [uri1]", got)
	}
	if got[0].Location.ID != loc.ID || got[0].Location.Dataset != ds {
		t.Errorf("location not rehydrated: %+v", got[0].Location)
	}
}

func TestCreateDataInNewLocation(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")

	info, err := c.CreateDataInNewLocation(ds, "uri1", index.StorageArray, nil, "")
	if err != nil {
		t.Fatalf("CreateDataInNewLocation: %v", err)
	}
	if info.Location.ID == 0 {
		t.Errorf("no location minted: %+v", info)
	}

	locs, err := c.QueryLocations(ds, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(locs) != 1 || locs[0].ID != info.Location.ID {
		t.Errorf("locations = %+v", locs)
	}
}

func TestCreateDataErrors(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, nil)

	if _, err := c.CreateData(loc, "uri1", "hologram", nil, ""); !errors.Is(err, index.ErrUnknownStorageType) {
		t.Errorf("err = %v, want ErrUnknownStorageType", err)
	}

	if _, err := c.CreateData(loc, "uri1", index.StorageImage, nil, ""); err != nil {
		t.Fatal(err)
	}
	_, err := c.CreateData(loc, "uri1", index.StorageImage, nil, "")
	if !errors.Is(err, index.ErrDuplicateURI) {
		t.Errorf("err = %v, want ErrDuplicateURI", err)
	}
}

func TestDeleteDataAllowsRecreate(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, nil)

	info, err := c.CreateData(loc, "uri1", index.StorageImage, anns(t, map[string]any{"channel": 0}), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteData(info); err != nil {
		t.Fatalf("DeleteData: %v", err)
	}

	if _, err := c.GetData(ds, "uri1"); !errors.Is(err, index.ErrMissingEntity) {
		t.Errorf("err = %v, want ErrMissingEntity after delete", err)
	}
	if _, err := c.CreateData(loc, "uri1", index.StorageImage, nil, ""); err != nil {
		t.Errorf("recreate after delete: %v", err)
	}
}

func TestQueryDataAmbiguous(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi"}))

	_, err := c.QueryData(ds, DataQuery{
		Annotations: anns(t, map[string]any{"stain": "dapi"}),
		Locations:   []model.Location{loc},
	})
	if !errors.Is(err, ErrAmbiguousQuery) {
		t.Errorf("err = %v, want ErrAmbiguousQuery", err)
	}
}

func TestQueryDataByLocations(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	locA, _ := c.NewLocation(ds, nil)
	locB, _ := c.NewLocation(ds, nil)
	if _, err := c.CreateData(locA, "a", index.StorageImage, nil, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateData(locB, "b", index.StorageImage, nil, ""); err != nil {
		t.Fatal(err)
	}

	got, err := c.QueryData(ds, DataQuery{Locations: []model.Location{locB}})
	if err != nil {
		t.Fatalf("QueryData: %v", err)
	}
	if len(got) != 1 || got[0].URI != "b" {
		t.Errorf("QueryData = %+v", got)
	}

	all, err := c.QueryData(ds, DataQuery{})
	if err != nil {
		t.Fatalf("QueryData (all): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all data = %+v", all)
	}
}

func TestQueryUnknownAnnotationKey(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi"}))
	if _, err := c.CreateData(loc, "u", index.StorageImage, nil, ""); err != nil {
		t.Fatal(err)
	}

	_, err := c.QueryData(ds, DataQuery{Annotations: anns(t, map[string]any{"never-used": "x"})})
	if !errors.Is(err, index.ErrNoMatchingAnnotations) {
		t.Errorf("err = %v, want ErrNoMatchingAnnotations", err)
	}
}

func TestQueryDataTuplesPairsChannels(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, nil)
	if _, err := c.CreateData(loc, "raw", index.StorageImage, anns(t, map[string]any{"channel": "0"}), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateData(loc, "mask", index.StorageImage, anns(t, map[string]any{"channel": "1"}), ""); err != nil {
		t.Fatal(err)
	}

	tuples, err := c.QueryDataTuples(ds, []model.Annotations{
		anns(t, map[string]any{"channel": "0"}),
		anns(t, map[string]any{"channel": "1"}),
	})
	if err != nil {
		t.Fatalf("QueryDataTuples: %v", err)
	}
	if len(tuples) != 1 {
		t.Fatalf("tuples = %+v, want one", tuples)
	}
	if tuples[0][0].URI != "raw" || tuples[0][1].URI != "mask" {
		t.Errorf("tuple = %+v, want (raw, mask)", tuples[0])
	}
}

func TestViewDataTuples(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, nil)
	if _, err := c.CreateData(loc, "raw", index.StorageImage, anns(t, map[string]any{"channel": "0"}), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateData(loc, "mask", index.StorageLabel, anns(t, map[string]any{"channel": "1"}), ""); err != nil {
		t.Fatal(err)
	}

	tbl, err := c.ViewDataTuples(ds, []model.Annotations{
		anns(t, map[string]any{"channel": "0"}),
		anns(t, map[string]any{"channel": "1"}),
	})
	if err != nil {
		t.Fatalf("ViewDataTuples: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("rows = %d", tbl.Len())
	}
	for col, want := range map[string]string{"uri": "raw", "uri_1": "mask", "type_1": index.StorageLabel} {
		if got, _ := tbl.Get(0, col); got != want {
			t.Errorf("%s = %q, want %q", col, got, want)
		}
	}
}

func TestQueryDataGroups(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	locA, _ := c.NewLocation(ds, nil)
	locB, _ := c.NewLocation(ds, nil)
	if _, err := c.CreateData(locA, "a", index.StorageImage, anns(t, map[string]any{"channel": "0"}), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CreateData(locB, "b", index.StorageImage, anns(t, map[string]any{"channel": "1"}), ""); err != nil {
		t.Fatal(err)
	}

	groups, err := c.QueryDataGroups(ds, []model.Annotations{
		anns(t, map[string]any{"channel": "0"}),
		anns(t, map[string]any{"channel": "1"}),
	})
	if err != nil {
		t.Fatalf("QueryDataGroups: %v", err)
	}
	if len(groups) != 2 || len(groups[0]) != 1 || len(groups[1]) != 1 {
		t.Fatalf("groups = %+v", groups)
	}
	if groups[0][0].URI != "a" || groups[1][0].URI != "b" {
		t.Errorf("groups = %+v", groups)
	}
}

func TestViewDataRoundTrip(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi"}))
	if _, err := c.CreateData(loc, "uri1", index.StorageImage, anns(t, map[string]any{"channel": "0"}), ""); err != nil {
		t.Fatal(err)
	}

	tbl, err := c.ViewData(ds, nil)
	if err != nil {
		t.Fatalf("ViewData: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("rows = %d", tbl.Len())
	}
	for col, want := range map[string]string{"stain": "dapi", "channel": "0", "format": "image"} {
		if got, _ := tbl.Get(0, col); got != want {
			t.Errorf("%s = %q, want %q", col, got, want)
		}
	}
}

func TestAnnotationValueListings(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi"}))
	if _, err := c.CreateData(loc, "u", index.StorageImage, anns(t, map[string]any{"channel": "0"}), ""); err != nil {
		t.Fatal(err)
	}

	locVals, err := c.LocationAnnotationValues(ds)
	if err != nil {
		t.Fatal(err)
	}
	if got := locVals["stain"]; len(got) != 1 || got[0] != "dapi" {
		t.Errorf("location values = %v", locVals)
	}

	dataVals, err := c.DataAnnotationValues(ds)
	if err != nil {
		t.Fatal(err)
	}
	if got := dataVals["channel"]; len(got) != 1 || got[0] != "0" {
		t.Errorf("data values = %v", dataVals)
	}
}

func TestDescriptionViaCatalog(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")

	if err := c.SetDescription(ds, map[string]any{"author": "jane"}); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}
	got, err := c.GetDescription(ds)
	if err != nil {
		t.Fatalf("GetDescription: %v", err)
	}
	if got["author"] != "jane" {
		t.Errorf("description = %v", got)
	}
}

func TestStats(t *testing.T) {
	c := newTestCatalog(t)
	ds, _ := c.NewDataset("exp")
	loc, _ := c.NewLocation(ds, anns(t, map[string]any{"stain": "dapi"}))
	if _, err := c.CreateData(loc, "u", index.StorageImage, nil, ""); err != nil {
		t.Fatal(err)
	}

	s, err := c.Stats(ds)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.LocationCount != 1 || s.DataCount != 1 || s.AnnotationCount != 1 {
		t.Errorf("Stats = %+v", s)
	}
}
