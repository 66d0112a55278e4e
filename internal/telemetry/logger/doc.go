// Package logger provides structured logging for skycli.
//
// It wraps log/slog with:
//
//   - text output to stderr by default (JSON available)
//   - automatic redaction of credentials (JWTs, passwords, auth headers)
//   - context-aware logging with per-invocation ID propagation
//   - dynamic log level (raised to debug by the --debug flag)
package logger
