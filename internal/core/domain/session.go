package domain

import (
	"strings"
	"time"
)

// DefaultService is the service origin used when none is configured.
const DefaultService = "https://bsky.social"

// Session represents the single authenticated identity persisted on disk.
//
// Exactly one session exists at a time. The record is either fully
// present and well-formed or absent; a partial record is never used.
type Session struct {
	// DID is the account's permanent identifier (immutable).
	DID string `json:"did"`

	// Handle is the human-readable name. It may change between logins
	// and is refreshed on every resume.
	Handle string `json:"handle"`

	// AccessJWT is the short-lived access credential.
	AccessJWT string `json:"access_jwt"`

	// RefreshJWT is the longer-lived refresh credential.
	RefreshJWT string `json:"refresh_jwt"`

	// Service is the origin the session was created against.
	Service string `json:"service"`

	// LastUsed is the last successful use (Unix milliseconds).
	LastUsed int64 `json:"last_used"`
}

// Validate checks that the session carries everything needed to resume.
func (s *Session) Validate() error {
	switch {
	case s == nil:
		return ErrSessionCorrupt.WithDetails("nil session")
	case strings.TrimSpace(s.DID) == "":
		return ErrSessionCorrupt.WithDetails("missing did")
	case s.AccessJWT == "":
		return ErrSessionCorrupt.WithDetails("missing access credential")
	case s.RefreshJWT == "":
		return ErrSessionCorrupt.WithDetails("missing refresh credential")
	}
	return nil
}

// Touch bumps the last-used timestamp to now.
func (s *Session) Touch() {
	s.LastUsed = time.Now().UnixMilli()
}

// ServiceOrDefault returns the stored service origin, or the default
// origin when the record predates the field.
func (s *Session) ServiceOrDefault() string {
	if s.Service == "" {
		return DefaultService
	}
	return s.Service
}
