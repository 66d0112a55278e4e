// Package domain defines the core domain models for skycli.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Session: the single persisted login (identity + credentials)
//   - AppError: the closed error taxonomy every failure is normalized
//     into before it crosses a component boundary
//
// Both are consumed by the credential store, the retry engine, the
// session lifecycle manager, and the CLI output layer.
package domain
