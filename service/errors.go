package service

import "errors"

// Error taxonomy of the catalog access layer. Store and blob errors are
// wrapped with operation context and one of these sentinels; nothing is
// swallowed or silently retried.
var (
	// ErrNotFound: no resource row with the requested id.
	ErrNotFound = errors.New("resource not found")
	// ErrBackendUnavailable: the metadata store could not serve a read.
	ErrBackendUnavailable = errors.New("catalog backend unavailable")
	// ErrUploadFailed: the blob store rejected or failed the upload.
	ErrUploadFailed = errors.New("file upload failed")
	// ErrValidationFailed: a required field or the file payload is missing.
	ErrValidationFailed = errors.New("validation failed")
)
