// Package google obtains and persists the OAuth2 credential used to call
// Google Calendar on the user's behalf.
//
// Manager.Credentials implements the credential lifecycle: a stored credential
// that is still valid is returned as is, an expired one with a refresh token
// is refreshed silently, and anything else goes through the interactive
// Authorizer. The result is written back to the Store.
//
// The interactive step is a capability interface so tests can replace the
// browser-based LoopbackAuthorizer with a fake.
package google
