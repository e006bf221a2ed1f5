package authflow

import "errors"

// Errors surfaced by the credential lifecycle manager
var (
	// ErrNotConfigured indicates the Dataverse resource URL is unset; the
	// device-code and refresh grants both require it as the token audience.
	ErrNotConfigured = errors.New("dataverse base URL is not configured")

	// ErrNotAuthenticated indicates no usable credential record exists and
	// none could be derived by a refresh.
	ErrNotAuthenticated = errors.New("not authenticated")
)
