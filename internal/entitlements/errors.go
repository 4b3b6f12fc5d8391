package entitlements

import "errors"

var (
	// ErrNotFound reports no matching entitlement record.
	ErrNotFound = errors.New("entitlement not found")

	// ErrDuplicateSession reports an insert that lost to an existing record
	// for the same checkout session (storage-level uniqueness).
	ErrDuplicateSession = errors.New("entitlement already exists for session")

	// ErrAccessDenied reports an authenticated caller without a live entitlement.
	ErrAccessDenied = errors.New("access denied: no active entitlement")
)
