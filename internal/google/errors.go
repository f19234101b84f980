package google

import "errors"

var (
	// ErrNoCredential means the store holds no credential yet.
	ErrNoCredential = errors.New("no stored credential")

	// ErrCorruptCredential means the store file exists but cannot be decoded.
	// It is never treated as absent: replacing it requires an explicit
	// re-authorization.
	ErrCorruptCredential = errors.New("stored credential is corrupt")

	// ErrReauthorizationRequired means the provider rejected the refresh
	// token and the user has to go through consent again.
	ErrReauthorizationRequired = errors.New("re-authorization required")

	// ErrInvalidSecrets means the client secrets file is missing or unusable.
	ErrInvalidSecrets = errors.New("invalid client secrets")

	// ErrAuthorizationDenied means the consent page redirected back with an error.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrStateMismatch is reported for a redirect that carried an unexpected
	// state value. Such redirects are rejected without ending the flow.
	ErrStateMismatch = errors.New("authorization state mismatch")
)
