// Package config loads skycli configuration.
//
// Sources, later overriding earlier:
//
//  1. Built-in defaults
//  2. YAML config file in the per-user config directory
//  3. SKYCLI_* environment variables
//  4. Command-line flags (applied by the command layer)
//
// The config directory also holds the encrypted session file; both are
// created owner-only.
package config
