// Package config holds the runtime configuration shared by the credential
// manager and the event creator.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// .env file, environment variables, and command-line flags (applied by the
// cmd package).
//
// Environment variables:
//   - MEETLINK_CLIENT_SECRETS: OAuth client secrets JSON (default: client_secret.json)
//   - MEETLINK_TOKEN_FILE: persisted credential (default: $XDG_DATA_HOME/meetlink/token.json)
//   - MEETLINK_REDIRECT_PORT: loopback redirect port (default: 5173)
//   - MEETLINK_CALENDAR_ID: target calendar (default: primary)
//   - MEETLINK_OPEN_BROWSER: open the consent page automatically (default: true)
//   - MEETLINK_AUTH_TIMEOUT: limit on the interactive flow, 0 waits forever (default: 0)
package config
