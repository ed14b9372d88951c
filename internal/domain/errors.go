package domain

import "errors"

var (
	// ErrProductNotFound is the valid negative for a barcode lookup,
	// distinct from a transport or decode failure
	ErrProductNotFound = errors.New("product not found")

	// ErrDirectoryFailure is returned when a directory API request fails
	ErrDirectoryFailure = errors.New("directory request failed")

	// ErrStoreUnavailable is returned when the local store cannot be read or written
	ErrStoreUnavailable = errors.New("local store unavailable")

	// ErrDecodeFailure is returned when persisted or seeded data cannot be decoded
	ErrDecodeFailure = errors.New("stored data could not be decoded")

	// ErrSeedMissing is returned when the bundled seed file does not exist
	ErrSeedMissing = errors.New("bundled seed missing")

	// ErrSeedCorrupt is returned when the bundled seed exists but cannot be parsed
	ErrSeedCorrupt = errors.New("bundled seed corrupt")

	// ErrSyncUnavailable is returned when the favorites sync service cannot be reached
	ErrSyncUnavailable = errors.New("favorites sync unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
