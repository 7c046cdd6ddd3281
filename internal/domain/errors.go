package domain

import "errors"

// Sentinel errors for the service layer. Services raise these (usually wrapped
// with fmt.Errorf and %w) inside transaction bodies; the delivery layer maps
// them to HTTP status codes with errors.Is.
var (
	// ErrUnauthorized means the caller presented no (or an invalid) identity.
	ErrUnauthorized = errors.New("authorization required")

	// ErrNotFound means a referenced Profile, Conference, Session, or Speaker is absent.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is not the organizer of the conference.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict covers business-rule conflicts: duplicate registration or
	// wishlist entry, no seats available, session times outside the conference window.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means the request itself is malformed, e.g. a session
	// whose start date is after its end date.
	ErrInvalidInput = errors.New("invalid input")
)
