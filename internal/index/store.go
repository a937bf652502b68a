package index

import (
	"database/sql"
	"errors"
	"fmt"
)

// Filter maps annotation key names to the canonical value text to match.
type Filter map[string]string

// InsertLocation mints a new location and returns its id.
func (d *Database) InsertLocation() (int64, error) {
	res, err := d.db.Exec(`INSERT INTO location DEFAULT VALUES`)
	if err != nil {
		return 0, fmt.Errorf("failed to insert location: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to insert location: %w", err)
	}
	return id, nil
}

// InsertAnnotationKey interns a key name, returning the existing id when the
// name is already known. Idempotent.
func (d *Database) InsertAnnotationKey(name string) (int64, error) {
	var id int64
	err := d.db.QueryRow(`SELECT id FROM annotation_key WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up annotation key %q: %w", name, err)
	}

	res, err := d.db.Exec(`INSERT INTO annotation_key (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to intern annotation key %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to intern annotation key %q: %w", name, err)
	}
	return id, nil
}

// locationExists reports whether a location id is in the index.
func (d *Database) locationExists(locationID int64) (bool, error) {
	var one int
	err := d.db.QueryRow(`SELECT 1 FROM location WHERE id = ?`, locationID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up location %d: %w", locationID, err)
	}
	return true, nil
}

// dataID resolves a data URI to its surrogate id.
func (d *Database) dataID(uri string) (int64, error) {
	var id int64
	err := d.db.QueryRow(`SELECT id FROM data WHERE uri = ?`, uri).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("data %q: %w", uri, ErrMissingEntity)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve data URI %q: %w", uri, err)
	}
	return id, nil
}

// storageTypeID resolves a storage-type name against the closed enumeration.
func (d *Database) storageTypeID(name string) (int64, error) {
	var id int64
	err := d.db.QueryRow(`SELECT id FROM storage_type WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownStorageType)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve storage type %q: %w", name, err)
	}
	return id, nil
}

// InsertLocationAnnotation attaches a key/value annotation to a location.
// The key is interned on first use.
func (d *Database) InsertLocationAnnotation(locationID int64, key, value string) error {
	ok, err := d.locationExists(locationID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("location %d: %w", locationID, ErrMissingEntity)
	}

	keyID, err := d.InsertAnnotationKey(key)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		`INSERT INTO location_annotation (location_id, key_id, value) VALUES (?, ?, ?)`,
		locationID, keyID, value,
	)
	if err != nil {
		return fmt.Errorf("failed to annotate location %d: %w", locationID, err)
	}
	return nil
}

// InsertDataAnnotation attaches a key/value annotation to the data item with
// the given URI.
func (d *Database) InsertDataAnnotation(dataURI, key, value string) error {
	id, err := d.dataID(dataURI)
	if err != nil {
		return err
	}

	keyID, err := d.InsertAnnotationKey(key)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		`INSERT INTO data_annotation (data_id, key_id, value) VALUES (?, ?, ?)`,
		id, keyID, value,
	)
	if err != nil {
		return fmt.Errorf("failed to annotate data %q: %w", dataURI, err)
	}
	return nil
}

// InsertData creates a data row at an existing location and returns its id.
// metadataURI may be empty when the item has no metadata document.
func (d *Database) InsertData(locationID int64, uri, storageType, metadataURI string) (int64, error) {
	typeID, err := d.storageTypeID(storageType)
	if err != nil {
		return 0, err
	}

	ok, err := d.locationExists(locationID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("location %d: %w", locationID, ErrMissingEntity)
	}

	var one int
	err = d.db.QueryRow(`SELECT 1 FROM data WHERE uri = ?`, uri).Scan(&one)
	if err == nil {
		return 0, fmt.Errorf("%q: %w", uri, ErrDuplicateURI)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check data URI %q: %w", uri, err)
	}

	res, err := d.db.Exec(
		`INSERT INTO data (location_id, type_id, uri, metadata_uri) VALUES (?, ?, ?, ?)`,
		locationID, typeID, uri, metadataURI,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert data %q: %w", uri, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to insert data %q: %w", uri, err)
	}
	return id, nil
}

// DeleteData removes a data row and its annotations in one transaction, so
// no orphaned annotation rows survive.
func (d *Database) DeleteData(uri string) error {
	id, err := d.dataID(uri)
	if err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to delete data %q: %w", uri, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM data_annotation WHERE data_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete annotations of %q: %w", uri, err)
	}
	if _, err := tx.Exec(`DELETE FROM data WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete data %q: %w", uri, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to delete data %q: %w", uri, err)
	}
	return nil
}
