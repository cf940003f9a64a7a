package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrNotOwner           = errors.New("user is not the owner of this listing")
	ErrInvalidListingData = errors.New("invalid listing data")

	// Geocoding outcomes. ErrLocationEmpty is a caller error raised before
	// any network call; the other two are kept distinct so callers can log
	// them differently even when they surface as the same user notice.
	ErrLocationEmpty       = errors.New("location must not be empty")
	ErrLocationNotFound    = errors.New("location not found")
	ErrGeocoderUnavailable = errors.New("geocoding service unavailable")

	ErrUploadRejected = errors.New("only image files are allowed")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
