// Package store persists the single session record with authenticated
// encryption at rest.
//
// The record lives in one file in the per-user config directory,
// owner-only, encoded as hex(nonce):hex(tag):hex(ciphertext). An empty
// file is the canonical logged-out marker. The encryption key is
// derived deterministically from stable machine/user identity material,
// so the same installation always reproduces it without storing it.
//
// This defends against casual disk inspection, not against a
// compromised local account; that limit is deliberate.
package store
