package index

import (
	"fmt"
)

// LocationAnnotationValues returns every annotation key used on locations
// with the distinct values observed for it, sorted.
func (d *Database) LocationAnnotationValues() (map[string][]string, error) {
	return d.annotationValues("location_annotation")
}

// DataAnnotationValues returns every annotation key used on data items with
// the distinct values observed for it, sorted.
func (d *Database) DataAnnotationValues() (map[string][]string, error) {
	return d.annotationValues("data_annotation")
}

func (d *Database) annotationValues(tbl string) (map[string][]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ak.name, ann.value
		FROM %s AS ann
		INNER JOIN annotation_key AS ak ON ak.id = ann.key_id
		ORDER BY ak.name, ann.value`, tbl)

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotation values: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		out[name] = append(out[name], value)
	}
	return out, rows.Err()
}
