package index

import "errors"

var (
	// ErrDuplicateURI indicates a data row with the same URI already exists.
	ErrDuplicateURI = errors.New("data URI already exists")
	// ErrUnknownStorageType indicates a storage-type name outside the recognized set.
	ErrUnknownStorageType = errors.New("unknown storage type")
	// ErrNoMatchingAnnotations indicates a queried annotation key is absent
	// from both annotation tables.
	ErrNoMatchingAnnotations = errors.New("no matching annotations in dataset")
	// ErrMissingEntity indicates an operation against a location id or data
	// URI that is not in the index.
	ErrMissingEntity = errors.New("entity not found in index")
	// ErrEmptyQuery indicates a tuple or group query with no annotation sets.
	ErrEmptyQuery = errors.New("query requires at least one annotation set")
)
