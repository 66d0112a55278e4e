// Package auth owns the authenticated client handle and drives the
// session lifecycle: login, resume, validate, refresh, logout.
//
// State machine:
//
//	NoSession -> Authenticating -> Active -> (Refreshing -> Active | Expired) -> NoSession
//
// Every failure that leaves this package is a classified AppError.
// Clearing the credential store is the only mutation that happens as a
// side effect of failure; all other store writes happen strictly after
// the corresponding remote call succeeded.
package auth
