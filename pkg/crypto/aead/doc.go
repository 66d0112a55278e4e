// Package aead provides authenticated encryption with automatic
// algorithm selection.
//
// It picks the cipher that is fast on the running hardware:
//
//   - AES-GCM where AES hardware acceleration is available
//   - ChaCha20-Poly1305 otherwise
//
// Callers supply the nonce explicitly, which lets them persist nonce,
// authentication tag, and ciphertext as separately recoverable fields.
package aead
