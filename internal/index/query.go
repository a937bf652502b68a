package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/datalocus/locus/internal/sqlutil"
)

// DataRow is one data item as returned by the query engine.
type DataRow struct {
	LocationID  int64
	URI         string
	StorageType string
	MetadataURI string
}

const dataRowSelect = `
	SELECT data.location_id, data.uri, storage_type.name, data.metadata_uri
	FROM data
	INNER JOIN storage_type ON storage_type.id = data.type_id`

func scanDataRow(rows *sql.Rows) (DataRow, error) {
	var r DataRow
	err := rows.Scan(&r.LocationID, &r.URI, &r.StorageType, &r.MetadataURI)
	return r, err
}

// keySides reports, for each requested key, whether it is observed among
// location annotations and among data annotations. A key observed on neither
// side fails the whole query: asking for annotations that exist nowhere in
// the dataset is a caller error, not an empty result.
func (d *Database) keySides(keys []string) (locAny, dataAny bool, err error) {
	inClause, args := sqlutil.InClauseArgs(keys)

	seen := make(map[string][2]bool, len(keys))
	for side, tbl := range map[int]string{0: "location_annotation", 1: "data_annotation"} {
		query := fmt.Sprintf(`
			SELECT DISTINCT ak.name
			FROM %s AS ann
			INNER JOIN annotation_key AS ak ON ak.id = ann.key_id
			WHERE ak.name IN (%s)`, tbl, inClause)

		rows, err := d.db.Query(query, args...)
		if err != nil {
			return false, false, fmt.Errorf("failed to classify annotation keys: %w", err)
		}
		names, err := sqlutil.ScanRows(rows, func(r *sql.Rows) (string, error) {
			var name string
			err := r.Scan(&name)
			return name, err
		})
		if err != nil {
			return false, false, fmt.Errorf("failed to classify annotation keys: %w", err)
		}
		for _, name := range names {
			s := seen[name]
			s[side] = true
			seen[name] = s
		}
	}

	for _, key := range keys {
		s := seen[key]
		if !s[0] && !s[1] {
			return false, false, fmt.Errorf("annotation key %q: %w", key, ErrNoMatchingAnnotations)
		}
		locAny = locAny || s[0]
		dataAny = dataAny || s[1]
	}
	return locAny, dataAny, nil
}

// QueryData returns the data items whose annotation set, combined with their
// location's, is a superset of the filter. The filter must not be empty.
func (d *Database) QueryData(filter Filter) ([]DataRow, error) {
	locAny, dataAny, err := d.keySides(filterKeys(filter))
	if err != nil {
		return nil, err
	}

	switch {
	case locAny && dataAny:
		return d.queryDataBoth(filter)
	case locAny:
		return d.queryDataLocationSide(filter)
	default:
		return d.queryDataDataSide(filter)
	}
}

// queryDataLocationSide handles filters whose keys live only on locations:
// count matching location_annotation rows per location and keep locations
// reaching exactly len(filter) matches. Duplicate values under one key can
// only pin the count below the target, never above it.
func (d *Database) queryDataLocationSide(filter Filter) ([]DataRow, error) {
	condition, condArgs := compilePredicate(filter)

	query := fmt.Sprintf(`
		WITH location_count AS (
			SELECT location_id, COUNT(1) AS loc_num
			FROM location_annotation
			WHERE %s
			GROUP BY location_id
		)
		%s
		WHERE data.location_id IN (
			SELECT location_id FROM location_count WHERE loc_num = ?
		)
		ORDER BY data.id`, condition, dataRowSelect)

	args := append(condArgs, len(filter))
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("data query failed: %w", err)
	}
	return sqlutil.ScanRows(rows, scanDataRow)
}

// queryDataDataSide is the same counting scheme keyed by data id.
func (d *Database) queryDataDataSide(filter Filter) ([]DataRow, error) {
	condition, condArgs := compilePredicate(filter)

	query := fmt.Sprintf(`
		WITH data_count AS (
			SELECT data_id, COUNT(1) AS data_num
			FROM data_annotation
			WHERE %s
			GROUP BY data_id
		)
		%s
		WHERE data.id IN (
			SELECT data_id FROM data_count WHERE data_num = ?
		)
		ORDER BY data.id`, condition, dataRowSelect)

	args := append(condArgs, len(filter))
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("data query failed: %w", err)
	}
	return sqlutil.ScanRows(rows, scanDataRow)
}

// queryDataBoth handles filters split across both tables: a per-location
// count and a per-data count must sum to the filter size, i.e. part of the
// AND is satisfied by the location's annotations and the rest by the data
// item's own.
func (d *Database) queryDataBoth(filter Filter) ([]DataRow, error) {
	condition, condArgs := compilePredicate(filter)

	query := fmt.Sprintf(`
		WITH location_count AS (
			SELECT location_id, COUNT(1) AS loc_num
			FROM location_annotation
			WHERE %s
			GROUP BY location_id
		),
		data_count AS (
			SELECT data_annotation.data_id, data.location_id, COUNT(1) AS data_num
			FROM data_annotation
			INNER JOIN data ON data.id = data_annotation.data_id
			WHERE %s
			GROUP BY data_annotation.data_id
		)
		%s
		WHERE data.id IN (
			SELECT data_id
			FROM data_count
			INNER JOIN location_count
				ON location_count.location_id = data_count.location_id
			WHERE loc_num + data_num = ?
		)
		ORDER BY data.id`, condition, condition, dataRowSelect)

	args := make([]any, 0, 2*len(condArgs)+1)
	args = append(args, condArgs...)
	args = append(args, condArgs...)
	args = append(args, len(filter))

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("data query failed: %w", err)
	}
	return sqlutil.ScanRows(rows, scanDataRow)
}

// QueryDataAt returns all data items at the given locations.
func (d *Database) QueryDataAt(locationIDs []int64) ([]DataRow, error) {
	inClause, args := sqlutil.InClauseArgs(locationIDs)

	query := fmt.Sprintf(`%s
		WHERE data.location_id IN (%s)
		ORDER BY data.id`, dataRowSelect, inClause)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("data query failed: %w", err)
	}
	return sqlutil.ScanRows(rows, scanDataRow)
}

// AllData returns every data item in the dataset.
func (d *Database) AllData() ([]DataRow, error) {
	rows, err := d.db.Query(dataRowSelect + " ORDER BY data.id")
	if err != nil {
		return nil, fmt.Errorf("data query failed: %w", err)
	}
	return sqlutil.ScanRows(rows, scanDataRow)
}

// GetData reads one data item by URI.
func (d *Database) GetData(uri string) (DataRow, error) {
	var r DataRow
	err := d.db.QueryRow(dataRowSelect+" WHERE data.uri = ?", uri).
		Scan(&r.LocationID, &r.URI, &r.StorageType, &r.MetadataURI)
	if errors.Is(err, sql.ErrNoRows) {
		return DataRow{}, fmt.Errorf("data %q: %w", uri, ErrMissingEntity)
	}
	if err != nil {
		return DataRow{}, fmt.Errorf("failed to read data %q: %w", uri, err)
	}
	return r, nil
}

// QueryLocations returns the ids of locations whose annotation set is a
// superset of the filter. An empty or nil filter returns every location.
func (d *Database) QueryLocations(filter Filter) ([]int64, error) {
	scanID := func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	}

	if len(filter) == 0 {
		rows, err := d.db.Query(`SELECT id FROM location ORDER BY id`)
		if err != nil {
			return nil, fmt.Errorf("location query failed: %w", err)
		}
		return sqlutil.ScanRows(rows, scanID)
	}

	if _, _, err := d.keySides(filterKeys(filter)); err != nil {
		return nil, err
	}

	condition, condArgs := compilePredicate(filter)
	query := fmt.Sprintf(`
		WITH location_count AS (
			SELECT location_id, COUNT(1) AS num
			FROM location_annotation
			WHERE %s
			GROUP BY location_id
		)
		SELECT location_id FROM location_count
		WHERE num = ?
		ORDER BY location_id`, condition)

	args := append(condArgs, len(filter))
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("location query failed: %w", err)
	}
	return sqlutil.ScanRows(rows, scanID)
}
