// Package atproto provides the XRPC client handle for skycli.
//
// It is a thin JSON-over-HTTP client for the AT Protocol endpoints the
// commands need:
//
//   - client.go: session endpoints plus generic Query/Procedure helpers
//   - errors.go: the wire error shape (APIError)
//   - chat.go: chat calls behind a pre-emptive local send throttle
//
// The client knows nothing about retries, classification or persistence;
// those live in internal/core. Failures surface either as transport
// errors or as *APIError carrying the HTTP status, the protocol error
// code, and any server-supplied retry-after value.
package atproto
