// Package index implements the annotation-indexed query engine over one
// dataset's SQLite store.
//
// Entities (locations and data items) carry annotations stored as narrow
// (entity_id, key_id, value) rows. Superset queries ("has all of these
// key/value pairs") are answered with a row-level OR predicate plus a
// count-based intersection, so one table scan satisfies an AND of any size.
package index

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// IndexFileName is the name of the index file inside a dataset directory.
const IndexFileName = "index.db"

// Storage-type names recognized by the index. The storage_type table is
// seeded with exactly this set; resolving any other name is an error.
const (
	StorageArray = "array"
	StorageTable = "table"
	StorageValue = "value"
	StorageLabel = "label"
	StorageImage = "image"
)

// StorageTypes lists the recognized storage-type names in seeding order.
var StorageTypes = []string{StorageArray, StorageTable, StorageValue, StorageLabel, StorageImage}

// Database is the handle to one dataset's index.
type Database struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for advanced queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Open opens or creates the index inside a dataset directory.
func Open(datasetDir string) (*Database, error) {
	dbPath := filepath.Join(datasetDir, IndexFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemory opens an in-memory index (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the index.
func (d *Database) Close() error {
	return d.db.Close()
}

// initialize creates the schema. The DDL and the storage-type seeding run in
// a single transaction so a failure never leaves a half-initialized store.
func (d *Database) initialize() error {
	// Pragmas cannot run inside a transaction.
	pragmas := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA foreign_keys = ON;
		PRAGMA temp_store = MEMORY;
	`
	if _, err := d.db.Exec(pragmas); err != nil {
		return fmt.Errorf("failed to configure index: %w", err)
	}

	schema := `
		-- Grouping points for data. A location has no attributes of its
		-- own; everything lives in its annotation set.
		CREATE TABLE IF NOT EXISTS location (
			id INTEGER PRIMARY KEY AUTOINCREMENT
		);

		-- Closed enumeration of recognized storage kinds.
		CREATE TABLE IF NOT EXISTS storage_type (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location_id INTEGER NOT NULL REFERENCES location(id),
			type_id INTEGER NOT NULL REFERENCES storage_type(id),
			uri TEXT NOT NULL UNIQUE,
			metadata_uri TEXT NOT NULL DEFAULT ''
		);

		-- Interned annotation key names. Annotation rows only ever store
		-- the surrogate id, which keeps the counting queries cheap.
		CREATE TABLE IF NOT EXISTS annotation_key (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		-- Not unique: a location can accumulate several values per key.
		CREATE TABLE IF NOT EXISTS location_annotation (
			location_id INTEGER NOT NULL REFERENCES location(id),
			key_id INTEGER NOT NULL REFERENCES annotation_key(id),
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS data_annotation (
			data_id INTEGER NOT NULL REFERENCES data(id),
			key_id INTEGER NOT NULL REFERENCES annotation_key(id),
			value TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_data_location ON data(location_id);
		CREATE INDEX IF NOT EXISTS idx_loc_ann_location ON location_annotation(location_id);
		CREATE INDEX IF NOT EXISTS idx_loc_ann_key_value ON location_annotation(key_id, value);
		CREATE INDEX IF NOT EXISTS idx_data_ann_data ON data_annotation(data_id);
		CREATE INDEX IF NOT EXISTS idx_data_ann_key_value ON data_annotation(key_id, value);
	`

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize index schema: %w", err)
	}
	for _, name := range StorageTypes {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO storage_type (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to seed storage types: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to initialize index schema: %w", err)
	}
	return nil
}

// Stats summarizes the index contents.
type Stats struct {
	LocationCount   int
	DataCount       int
	KeyCount        int
	AnnotationCount int
}

// Stats counts locations, data items, interned keys, and annotation rows.
func (d *Database) Stats() (Stats, error) {
	var s Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(1) FROM location", &s.LocationCount},
		{"SELECT COUNT(1) FROM data", &s.DataCount},
		{"SELECT COUNT(1) FROM annotation_key", &s.KeyCount},
		{"SELECT (SELECT COUNT(1) FROM location_annotation) + (SELECT COUNT(1) FROM data_annotation)", &s.AnnotationCount},
	}
	for _, c := range counts {
		if err := d.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("failed to read index stats: %w", err)
		}
	}
	return s, nil
}
