// Package model defines the core catalog entities: datasets, locations,
// data items, and annotation values.
package model

// URI is an opaque identifier for a dataset, a data item, or a stored
// document. The catalog never interprets its internal structure.
type URI string

// String returns the URI as a plain string.
func (u URI) String() string {
	return string(u)
}

// Dataset identifies one dataset in a workspace. The URI is the dataset's
// directory name; Name is the human-readable title from info.json.
type Dataset struct {
	Name string `json:"name"`
	URI  URI    `json:"uri"`
}

// Location is a grouping point for data inside a dataset. It has no
// intrinsic attributes beyond its id and its annotations.
type Location struct {
	Dataset Dataset `json:"dataset"`
	ID      int64   `json:"id"`
}

// DataInfo describes one data item: where it lives, how its payload is
// stored, and where its metadata document is (empty URI if absent).
type DataInfo struct {
	Location    Location `json:"location"`
	URI         URI      `json:"uri"`
	StorageType string   `json:"storage_type"`
	MetadataURI URI      `json:"metadata_uri"`
}
