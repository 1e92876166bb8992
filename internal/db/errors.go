package db

import "errors"

// Store error taxonomy. Repositories and the gateway wrap underlying client
// errors with one of these sentinels so callers can classify failures with
// errors.Is without depending on the Firestore or Storage client packages.
var (
	// ErrNotFound marks a valid lookup that matched no document.
	ErrNotFound = errors.New("document not found")

	// ErrQueryFailure marks a query the store could not execute
	// (unreachable, permission denied, malformed composite).
	ErrQueryFailure = errors.New("query failed")

	// ErrWriteFailure marks a rejected insert or update.
	ErrWriteFailure = errors.New("write rejected")

	// ErrUploadFailure marks a rejected blob-store write. A preceding
	// record insert is NOT rolled back when this occurs.
	ErrUploadFailure = errors.New("blob upload rejected")
)
