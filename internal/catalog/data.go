package catalog

import (
	"github.com/datalocus/locus/internal/index"
	"github.com/datalocus/locus/internal/model"
)

// NewLocation creates a location in a dataset, optionally annotated.
func (c *Catalog) NewLocation(ds model.Dataset, annotations model.Annotations) (model.Location, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return model.Location{}, err
	}

	id, err := db.InsertLocation()
	if err != nil {
		return model.Location{}, err
	}
	loc := model.Location{Dataset: ds, ID: id}

	for key, value := range annotations {
		if err := db.InsertLocationAnnotation(id, key, value.Text); err != nil {
			return model.Location{}, err
		}
	}
	return loc, nil
}

// AnnotateLocation attaches one key/value annotation to a location.
func (c *Catalog) AnnotateLocation(loc model.Location, key string, value model.Value) error {
	db, err := c.connection(loc.Dataset.URI)
	if err != nil {
		return err
	}
	return db.InsertLocationAnnotation(loc.ID, key, value.Text)
}

// AnnotateData attaches one key/value annotation to a data item.
func (c *Catalog) AnnotateData(info model.DataInfo, key string, value model.Value) error {
	db, err := c.connection(info.Location.Dataset.URI)
	if err != nil {
		return err
	}
	return db.InsertDataAnnotation(info.URI.String(), key, value.Text)
}

// CreateData places a data item at an existing location.
func (c *Catalog) CreateData(loc model.Location, uri model.URI, storageType string,
	annotations model.Annotations, metadataURI model.URI) (model.DataInfo, error) {

	db, err := c.connection(loc.Dataset.URI)
	if err != nil {
		return model.DataInfo{}, err
	}

	if _, err := db.InsertData(loc.ID, uri.String(), storageType, metadataURI.String()); err != nil {
		return model.DataInfo{}, err
	}
	for key, value := range annotations {
		if err := db.InsertDataAnnotation(uri.String(), key, value.Text); err != nil {
			return model.DataInfo{}, err
		}
	}

	return model.DataInfo{
		Location:    loc,
		URI:         uri,
		StorageType: storageType,
		MetadataURI: metadataURI,
	}, nil
}

// CreateDataInNewLocation mints a fresh location in the dataset and places
// the data item there, mirroring creation without an explicit location.
func (c *Catalog) CreateDataInNewLocation(ds model.Dataset, uri model.URI, storageType string,
	annotations model.Annotations, metadataURI model.URI) (model.DataInfo, error) {

	loc, err := c.NewLocation(ds, nil)
	if err != nil {
		return model.DataInfo{}, err
	}
	return c.CreateData(loc, uri, storageType, annotations, metadataURI)
}

// GetData reads one data item by URI.
func (c *Catalog) GetData(ds model.Dataset, uri model.URI) (model.DataInfo, error) {
	db, err := c.connection(ds.URI)
	if err != nil {
		return model.DataInfo{}, err
	}
	row, err := db.GetData(uri.String())
	if err != nil {
		return model.DataInfo{}, err
	}
	return dataInfoFromRow(ds, row), nil
}

// DeleteData removes a data item and its annotations.
func (c *Catalog) DeleteData(info model.DataInfo) error {
	db, err := c.connection(info.Location.Dataset.URI)
	if err != nil {
		return err
	}
	return db.DeleteData(info.URI.String())
}

func dataInfoFromRow(ds model.Dataset, row index.DataRow) model.DataInfo {
	return model.DataInfo{
		Location:    model.Location{Dataset: ds, ID: row.LocationID},
		URI:         model.URI(row.URI),
		StorageType: row.StorageType,
		MetadataURI: model.URI(row.MetadataURI),
	}
}
