// Package logging provides structured logging utilities for meetlink.
//
// All diagnostics go to stderr through log/slog so that stdout carries only
// the command result (the meeting link). Attribute helpers keep key names
// consistent across packages.
//
// # Usage Patterns
//
//	logger := logging.WithOperation(slog.Default(), "calendar.insert")
//	logger.Info("event created", logging.Status(logging.StatusSuccess))
//
// # Security Considerations
//
// OAuth tokens are never logged directly; use SanitizeToken.
package logging
