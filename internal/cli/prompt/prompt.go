// Package prompt reads secrets from the terminal without echoing.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ReadSecret prompts on w and reads a secret from r without echoing
// when r is a terminal. Backspace editing is handled by the raw-mode
// reader; a non-terminal r (pipes, tests) falls back to a plain line
// read so scripted use keeps working.
func ReadSecret(w io.Writer, r *os.File, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)

	fd := int(r.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return string(secret), nil
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadLine prompts on w and reads an echoed line (identifiers).
func ReadLine(w io.Writer, r io.Reader, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
