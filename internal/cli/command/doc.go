// Package command defines the skycli command surface.
//
// Commands are thin plumbing: argument parsing, a call into the core
// (session lifecycle, retry-wrapped client calls), and rendering. All
// failure paths flow through the shared classifier, so the message a
// user sees and the process exit code can never disagree.
package command
