package index

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesIndexFile(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.InsertLocation(); err != nil {
		t.Fatalf("InsertLocation: %v", err)
	}

	// Reopening must see the existing schema and data.
	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	ids, err := db2.QueryLocations(nil)
	if err != nil {
		t.Fatalf("QueryLocations: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("locations after reopen = %v, want one", ids)
	}

	if filepath.Base(filepath.Join(dir, IndexFileName)) != "index.db" {
		t.Errorf("unexpected index file name")
	}
}

func TestStorageTypesSeeded(t *testing.T) {
	db := newTestDB(t)

	for _, name := range StorageTypes {
		if _, err := db.storageTypeID(name); err != nil {
			t.Errorf("storage type %q not seeded: %v", name, err)
		}
	}

	_, err := db.storageTypeID("hologram")
	if !errors.Is(err, ErrUnknownStorageType) {
		t.Errorf("err = %v, want ErrUnknownStorageType", err)
	}
}

func TestInitializeIdempotent(t *testing.T) {
	db := newTestDB(t)
	if err := db.initialize(); err != nil {
		t.Fatalf("second initialize: %v", err)
	}

	// Seeding must not duplicate storage types.
	var n int
	if err := db.DB().QueryRow(`SELECT COUNT(1) FROM storage_type`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(StorageTypes) {
		t.Errorf("storage_type rows = %d, want %d", n, len(StorageTypes))
	}
}

func TestStats(t *testing.T) {
	db := newTestDB(t)

	loc, err := db.InsertLocation()
	if err != nil {
		t.Fatalf("InsertLocation: %v", err)
	}
	if err := db.InsertLocationAnnotation(loc, "stain", "dapi"); err != nil {
		t.Fatalf("InsertLocationAnnotation: %v", err)
	}
	if _, err := db.InsertData(loc, "u1", StorageImage, ""); err != nil {
		t.Fatalf("InsertData: %v", err)
	}
	if err := db.InsertDataAnnotation("u1", "channel", "0"); err != nil {
		t.Fatalf("InsertDataAnnotation: %v", err)
	}

	s, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := Stats{LocationCount: 1, DataCount: 1, KeyCount: 2, AnnotationCount: 2}
	if s != want {
		t.Errorf("Stats = %+v, want %+v", s, want)
	}
}
