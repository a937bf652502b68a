package index

import (
	"fmt"
	"strconv"

	"github.com/datalocus/locus/internal/table"
)

// QueryDataTuples runs one superset query per filter and inner-joins the
// result sets pairwise on location id. Each returned tuple holds, in filter
// order, one matching data item per filter, all at the same location. When
// several items at a location match the same filter, the join fans out to
// every combination, like a relational join would.
func (d *Database) QueryDataTuples(filters []Filter) ([][]DataRow, error) {
	if len(filters) == 0 {
		return nil, ErrEmptyQuery
	}

	sets, err := d.QueryDataGroups(filters)
	if err != nil {
		return nil, err
	}

	tuples := make([][]DataRow, 0, len(sets[0]))
	for _, row := range sets[0] {
		tuples = append(tuples, []DataRow{row})
	}

	for _, set := range sets[1:] {
		byLocation := make(map[int64][]DataRow)
		for _, row := range set {
			byLocation[row.LocationID] = append(byLocation[row.LocationID], row)
		}

		var joined [][]DataRow
		for _, tuple := range tuples {
			for _, match := range byLocation[tuple[0].LocationID] {
				next := make([]DataRow, len(tuple), len(tuple)+1)
				copy(next, tuple)
				joined = append(joined, append(next, match))
			}
		}
		tuples = joined
	}

	return tuples, nil
}

// QueryDataGroups runs one superset query per filter and returns the result
// sets unjoined, one independent cohort per filter.
func (d *Database) QueryDataGroups(filters []Filter) ([][]DataRow, error) {
	if len(filters) == 0 {
		return nil, ErrEmptyQuery
	}

	sets := make([][]DataRow, 0, len(filters))
	for i, filter := range filters {
		rows, err := d.QueryData(filter)
		if err != nil {
			return nil, fmt.Errorf("annotation set %d: %w", i, err)
		}
		sets = append(sets, rows)
	}
	return sets, nil
}

// TupleTable flattens tuples into one row per tuple. The first member's
// columns keep their plain names; columns of the 2nd, 3rd, ... members are
// suffixed with their positional index to stay unambiguous after the join.
func TupleTable(tuples [][]DataRow, width int) *table.Table {
	tbl := table.New("location_id")
	for i := 0; i < width; i++ {
		suffix := ""
		if i > 0 {
			suffix = "_" + strconv.Itoa(i)
		}
		tbl.AddColumn("uri" + suffix)
		tbl.AddColumn("type" + suffix)
		tbl.AddColumn("metadata_uri" + suffix)
	}

	for _, tuple := range tuples {
		cells := make([]string, 0, 1+3*width)
		cells = append(cells, strconv.FormatInt(tuple[0].LocationID, 10))
		for _, row := range tuple {
			cells = append(cells, row.URI, row.StorageType, row.MetadataURI)
		}
		tbl.AppendRow(cells...)
	}
	return tbl
}
