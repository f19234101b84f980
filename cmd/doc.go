// Package cmd implements the command-line interface for meetlink.
//
// This package provides the following commands:
//   - create: Create a calendar event with a Google Meet link and print the link
//   - auth: Authorize meetlink and store the credential without creating an event
//   - version: Display version information
//
// The create command is the default command when no subcommand is specified.
//
// Flags take precedence over MEETLINK_* environment variables, which may also
// be provided through a .env file in the working directory.
package cmd
