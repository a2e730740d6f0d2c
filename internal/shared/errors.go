package shared

import "errors"

var (
	// ErrUnauthenticated indicates the bearer token was absent or failed verification.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates an authenticated caller without ownership of the target sub-area.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRequest indicates missing or malformed required parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidQueryCombination indicates an activity filter supplied without a sub-area.
	ErrInvalidQueryCombination = errors.New("invalid query combination")
	// ErrNotFound indicates the target record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable indicates the document store failed the call.
	ErrStoreUnavailable = errors.New("store unavailable")
)
