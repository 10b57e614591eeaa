package apperrors

import "errors"

// Refresh errors classify why a single asset could not be refreshed.
// Adapters wrap one of these with the asset context; the refresh engine
// turns any of them into a stale fallback for that asset.
var (
	// ErrNetwork indicates the upstream could not be reached or answered with
	// a non-success status (timeout, connection refused, HTTP 429/5xx).
	ErrNetwork = errors.New("upstream network error")

	// ErrUpstreamData indicates the upstream answered but the payload lacks
	// the expected fields (no chart result, no market entry, bad JSON).
	ErrUpstreamData = errors.New("upstream data error")

	// ErrValidation indicates the asset cannot be dispatched, e.g. its
	// api_source names no known adapter.
	ErrValidation = errors.New("validation error")
)

// Catalog errors are returned by the catalog stores and the refresh service.
var (
	// ErrCatalogNotFound indicates the catalog file or table does not exist yet.
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrFailedToLoadCatalog indicates the catalog exists but could not be read.
	ErrFailedToLoadCatalog = errors.New("failed to load catalog")

	// ErrFailedToSaveCatalog indicates the refreshed catalog could not be written.
	ErrFailedToSaveCatalog = errors.New("failed to save catalog")

	// ErrFailedToWriteBackup indicates the pre-overwrite snapshot could not be written.
	ErrFailedToWriteBackup = errors.New("failed to write catalog backup")

	ErrUnknownBackend = errors.New("unknown catalog backend")
)

// API errors are the user-facing messages of the HTTP layer.
var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrInvalidSortKey   = errors.New("invalid sort key")
)
