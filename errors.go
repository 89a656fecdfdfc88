package assets

import "errors"

// Sentinel errors returned by construction and lifecycle methods. Query
// methods never return errors.
var (
	// ErrNoFetcher is returned when manifest mode is selected without a Fetcher.
	ErrNoFetcher = errors.New("assets: manifest mode requires a fetcher")

	// ErrNoStorage is returned when native mode is selected without a Storage.
	ErrNoStorage = errors.New("assets: native mode requires a storage")

	// ErrAlreadyInitialized is returned by Init on an Index that is already
	// initialized and not yet destroyed.
	ErrAlreadyInitialized = errors.New("assets: already initialized")

	// ErrNotInitialized is returned by Wait on an Index that has not been
	// initialized, or has been destroyed.
	ErrNotInitialized = errors.New("assets: not initialized")

	// ErrManifestUnavailable is the cause reported by LoadErr when the
	// manifest could not be fetched or decoded and the Index degraded to an
	// empty listing.
	ErrManifestUnavailable = errors.New("assets: manifest unavailable")
)
