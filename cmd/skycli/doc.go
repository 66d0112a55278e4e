// Package main provides the entry point for skycli.
//
// skycli is a terminal client for Bluesky:
//
//   - Authentication (login, logout, session status and refresh)
//   - Posting and reading the timeline
//   - Profiles, follows and account search
//   - Notifications and direct messages
//
// Usage:
//
//	skycli [command] [flags]
//	skycli login alice.bsky.social
//	skycli timeline --limit 10 --output json
//
// Credentials are stored encrypted under the user config directory.
package main
