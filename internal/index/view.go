package index

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/datalocus/locus/internal/sqlutil"
	"github.com/datalocus/locus/internal/table"
)

// annotationKey is one interned key as used by the pivot views.
type annotationKey struct {
	ID   int64
	Name string
}

// distinctKeys lists the keys used at least once in an annotation table.
func (d *Database) distinctKeys(tbl string) ([]annotationKey, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ak.id, ak.name
		FROM %s AS ann
		INNER JOIN annotation_key AS ak ON ak.id = ann.key_id
		ORDER BY ak.name`, tbl)

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate annotation keys: %w", err)
	}
	return sqlutil.ScanRows(rows, func(r *sql.Rows) (annotationKey, error) {
		var k annotationKey
		err := r.Scan(&k.ID, &k.Name)
		return k, err
	})
}

// ViewLocations pivots location annotations into a wide table: one row per
// location, one column per annotation key ever used on any location. A
// location with no value for a key keeps table.NoValue in that cell; a
// location with several values for one key keeps the last row scanned (only
// a single value per cell is representable in the pivot).
func (d *Database) ViewLocations() (*table.Table, error) {
	tbl := table.New("location")

	locationIDs, err := d.QueryLocations(nil)
	if err != nil {
		return nil, err
	}
	rowOf := make(map[int64]int, len(locationIDs))
	for _, id := range locationIDs {
		rowOf[id] = tbl.AppendRow(strconv.FormatInt(id, 10))
	}

	keys, err := d.distinctKeys("location_annotation")
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		tbl.AddColumn(key.Name)

		rows, err := d.db.Query(
			`SELECT location_id, value FROM location_annotation WHERE key_id = ?`, key.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to pivot key %q: %w", key.Name, err)
		}
		if err := fillColumn(tbl, rowOf, key.Name, rows); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// ViewData builds the data view: one row per data item with its location and
// storage format, left-joined with the pivoted location-annotation columns
// and the pivoted data-annotation columns. A non-empty locationIDs restricts
// the view to those locations.
func (d *Database) ViewData(locationIDs []int64) (*table.Table, error) {
	tbl := table.New("data_id", "location", "format")

	var (
		items []DataRow
		err   error
	)
	if len(locationIDs) > 0 {
		items, err = d.QueryDataAt(locationIDs)
	} else {
		items, err = d.AllData()
	}
	if err != nil {
		return nil, err
	}

	// Row alignment is by data id; location columns fan out to every data
	// row at that location.
	dataRowOf := make(map[int64]int, len(items))
	locationRowsOf := make(map[int64][]int)
	for _, item := range items {
		id, err := d.dataID(item.URI)
		if err != nil {
			return nil, err
		}
		row := tbl.AppendRow(
			strconv.FormatInt(id, 10),
			strconv.FormatInt(item.LocationID, 10),
			item.StorageType,
		)
		dataRowOf[id] = row
		locationRowsOf[item.LocationID] = append(locationRowsOf[item.LocationID], row)
	}

	locFilter := ""
	var locArgs []any
	if len(locationIDs) > 0 {
		in, args := sqlutil.InClauseArgs(locationIDs)
		locFilter = fmt.Sprintf(" AND location_id IN (%s)", in)
		locArgs = args
	}

	locKeys, err := d.distinctKeys("location_annotation")
	if err != nil {
		return nil, err
	}
	for _, key := range locKeys {
		tbl.AddColumn(key.Name)

		query := `SELECT location_id, value FROM location_annotation WHERE key_id = ?` + locFilter
		args := append([]any{key.ID}, locArgs...)
		rows, err := d.db.Query(query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to pivot key %q: %w", key.Name, err)
		}
		pairs, err := scanIDValues(rows)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			for _, row := range locationRowsOf[p.id] {
				if err := tbl.Set(row, key.Name, p.value); err != nil {
					return nil, err
				}
			}
		}
	}

	dataFilter := ""
	if len(locationIDs) > 0 {
		in, _ := sqlutil.InClauseArgs(locationIDs)
		dataFilter = fmt.Sprintf(
			" AND data_id IN (SELECT id FROM data WHERE location_id IN (%s))", in)
	}

	dataKeys, err := d.distinctKeys("data_annotation")
	if err != nil {
		return nil, err
	}
	for _, key := range dataKeys {
		tbl.AddColumn(key.Name)

		query := `SELECT data_id, value FROM data_annotation WHERE key_id = ?` + dataFilter
		args := append([]any{key.ID}, locArgs...)
		rows, err := d.db.Query(query, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to pivot key %q: %w", key.Name, err)
		}
		pairs, err := scanIDValues(rows)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			if row, ok := dataRowOf[p.id]; ok {
				if err := tbl.Set(row, key.Name, p.value); err != nil {
					return nil, err
				}
			}
		}
	}

	return tbl, nil
}

type idValue struct {
	id    int64
	value string
}

func scanIDValues(rows *sql.Rows) ([]idValue, error) {
	return sqlutil.ScanRows(rows, func(r *sql.Rows) (idValue, error) {
		var p idValue
		err := r.Scan(&p.id, &p.value)
		return p, err
	})
}

// fillColumn writes one pivot column from (entity_id, value) rows, aligning
// by the entity→row mapping. Entities outside the mapping are skipped rather
// than crashing the alignment.
func fillColumn(tbl *table.Table, rowOf map[int64]int, column string, rows *sql.Rows) error {
	pairs, err := scanIDValues(rows)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		row, ok := rowOf[p.id]
		if !ok {
			continue
		}
		if err := tbl.Set(row, column, p.value); err != nil {
			return err
		}
	}
	return nil
}
