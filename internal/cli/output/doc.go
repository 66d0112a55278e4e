// Package output provides output formatting for skycli.
//
// It handles:
//
//   - format.go: Formatter interface and factory (table, json)
//   - table.go: tabwriter-based table rendering
//   - json.go: indented JSON for scripting
//   - errors.go: classified error -> message and fixed exit code
//
// Exit codes are stable per error class so scripts can branch on exit
// status without parsing text.
package output
