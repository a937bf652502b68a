package cli

import (
	"errors"

	"github.com/datalocus/locus/internal/catalog"
	"github.com/datalocus/locus/internal/index"
	"github.com/datalocus/locus/internal/metadata"
	"github.com/datalocus/locus/internal/storage"
	"github.com/datalocus/locus/internal/workspace"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts and agents.
const (
	// Workspace errors
	ErrWorkspaceNotFound     = "WORKSPACE_NOT_FOUND"
	ErrWorkspaceNotSpecified = "WORKSPACE_NOT_SPECIFIED"
	ErrConfigInvalid         = "CONFIG_INVALID"

	// Dataset errors
	ErrDatasetNotFound = "DATASET_NOT_FOUND"
	ErrDatasetExists   = "DATASET_EXISTS"

	// Entity errors
	ErrEntityNotFound     = "ENTITY_NOT_FOUND"
	ErrDuplicateURI       = "DUPLICATE_URI"
	ErrUnknownStorageType = "UNKNOWN_STORAGE_TYPE"

	// Query errors
	ErrNoMatchingAnnotations = "NO_MATCHING_ANNOTATIONS"
	ErrAmbiguousQuery        = "AMBIGUOUS_QUERY"
	ErrEmptyQuery            = "EMPTY_QUERY"

	// Sidecar errors
	ErrMetadataNotFound = "METADATA_NOT_FOUND"
	ErrPayloadNotFound  = "PAYLOAD_NOT_FOUND"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrDatabaseError = "DATABASE_ERROR"
	ErrInternal      = "INTERNAL_ERROR"
)

// errorCode maps a domain error to its stable code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, workspace.ErrDatasetNotFound):
		return ErrDatasetNotFound
	case errors.Is(err, workspace.ErrDuplicateDataset):
		return ErrDatasetExists
	case errors.Is(err, index.ErrMissingEntity):
		return ErrEntityNotFound
	case errors.Is(err, index.ErrDuplicateURI):
		return ErrDuplicateURI
	case errors.Is(err, index.ErrUnknownStorageType):
		return ErrUnknownStorageType
	case errors.Is(err, index.ErrNoMatchingAnnotations):
		return ErrNoMatchingAnnotations
	case errors.Is(err, index.ErrEmptyQuery):
		return ErrEmptyQuery
	case errors.Is(err, catalog.ErrAmbiguousQuery):
		return ErrAmbiguousQuery
	case errors.Is(err, metadata.ErrNotFound):
		return ErrMetadataNotFound
	case errors.Is(err, storage.ErrNotFound):
		return ErrPayloadNotFound
	default:
		return ErrDatabaseError
	}
}

// suggestionFor returns a hint for common domain errors, empty otherwise.
func suggestionFor(err error) string {
	switch {
	case errors.Is(err, workspace.ErrDatasetNotFound):
		return "Run 'locus dataset list' to see available datasets"
	case errors.Is(err, index.ErrUnknownStorageType):
		return "Valid storage types: array, table, value, label, image"
	case errors.Is(err, index.ErrNoMatchingAnnotations):
		return "Run 'locus annotations data <dataset>' to see known keys"
	case errors.Is(err, catalog.ErrAmbiguousQuery):
		return "Pass either annotation filters or --location, not both"
	default:
		return ""
	}
}

// handleDomainError maps a domain error to its code and hint.
func handleDomainError(err error) error {
	return handleError(errorCode(err), err, suggestionFor(err))
}
