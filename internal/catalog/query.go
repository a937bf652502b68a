package catalog

import (
	"github.com/datalocus/locus/internal/index"
	"github.com/datalocus/locus/internal/model"
	"github.com/datalocus/locus/internal/table"
)

// DataQuery selects data either by an annotation superset filter or by a
// set of locations. Supplying both is an error; supplying neither returns
// every data item in the dataset.
type DataQuery struct {
	Annotations model.Annotations
	Locations   []model.Location
}

// QueryData retrieves data items from a dataset.
func (c *Catalog) QueryData(ds model.Dataset, q DataQuery) ([]model.DataInfo, error) {
	if len(q.Annotations) > 0 && len(q.Locations) > 0 {
		return nil, ErrAmbiguousQuery
	}

	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}

	var rows []index.DataRow
	switch {
	case len(q.Annotations) > 0:
		rows, err = db.QueryData(toFilter(q.Annotations))
	case len(q.Locations) > 0:
		ids := make([]int64, len(q.Locations))
		for i, loc := range q.Locations {
			ids[i] = loc.ID
		}
		rows, err = db.QueryDataAt(ids)
	default:
		rows, err = db.AllData()
	}
	if err != nil {
		return nil, err
	}

	out := make([]model.DataInfo, len(rows))
	for i, row := range rows {
		out[i] = dataInfoFromRow(ds, row)
	}
	return out, nil
}

// QueryDataTuples retrieves per-location tuples of data: one superset query
// per annotation set, inner-joined on location id.
func (c *Catalog) QueryDataTuples(ds model.Dataset, annotationSets []model.Annotations) ([][]model.DataInfo, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}

	tuples, err := db.QueryDataTuples(toFilters(annotationSets))
	if err != nil {
		return nil, err
	}

	out := make([][]model.DataInfo, len(tuples))
	for i, tuple := range tuples {
		infos := make([]model.DataInfo, len(tuple))
		for j, row := range tuple {
			infos[j] = dataInfoFromRow(ds, row)
		}
		out[i] = infos
	}
	return out, nil
}

// QueryDataGroups retrieves independent cohorts of data, one per annotation
// set, with no join between them.
func (c *Catalog) QueryDataGroups(ds model.Dataset, annotationSets []model.Annotations) ([][]model.DataInfo, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}

	groups, err := db.QueryDataGroups(toFilters(annotationSets))
	if err != nil {
		return nil, err
	}

	out := make([][]model.DataInfo, len(groups))
	for i, group := range groups {
		infos := make([]model.DataInfo, len(group))
		for j, row := range group {
			infos[j] = dataInfoFromRow(ds, row)
		}
		out[i] = infos
	}
	return out, nil
}

// ViewDataTuples runs a tuple query and flattens the result into a table,
// one row per tuple with positionally suffixed columns.
func (c *Catalog) ViewDataTuples(ds model.Dataset, annotationSets []model.Annotations) (*table.Table, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}

	tuples, err := db.QueryDataTuples(toFilters(annotationSets))
	if err != nil {
		return nil, err
	}
	return index.TupleTable(tuples, len(annotationSets)), nil
}

// QueryLocations retrieves locations by annotation superset. A nil or empty
// filter returns every location in the dataset.
func (c *Catalog) QueryLocations(ds model.Dataset, annotations model.Annotations) ([]model.Location, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}

	ids, err := db.QueryLocations(toFilter(annotations))
	if err != nil {
		return nil, err
	}

	out := make([]model.Location, len(ids))
	for i, id := range ids {
		out[i] = model.Location{Dataset: ds, ID: id}
	}
	return out, nil
}

// LocationAnnotationValues lists every location annotation key in the
// dataset with its observed values.
func (c *Catalog) LocationAnnotationValues(ds model.Dataset) (map[string][]string, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}
	return db.LocationAnnotationValues()
}

// DataAnnotationValues lists every data annotation key in the dataset with
// its observed values.
func (c *Catalog) DataAnnotationValues(ds model.Dataset) (map[string][]string, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}
	return db.DataAnnotationValues()
}

// ViewLocations builds the locations pivot view.
func (c *Catalog) ViewLocations(ds model.Dataset) (*table.Table, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}
	return db.ViewLocations()
}

// ViewData builds the data pivot view, optionally restricted to locations.
func (c *Catalog) ViewData(ds model.Dataset, locations []model.Location) (*table.Table, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(locations))
	for i, loc := range locations {
		ids[i] = loc.ID
	}
	return db.ViewData(ids)
}

func toFilters(annotationSets []model.Annotations) []index.Filter {
	filters := make([]index.Filter, len(annotationSets))
	for i, anns := range annotationSets {
		filters[i] = toFilter(anns)
	}
	return filters
}
