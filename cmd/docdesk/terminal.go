package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// terminal is the workspace notifier of the CLI: alerts go to out and
// confirmations are read from in.
type terminal struct {
	mu        sync.Mutex
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
	alerted   bool
}

func newTerminal(in io.Reader, out io.Writer, assumeYes bool) *terminal {
	return &terminal{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (t *terminal) Alert(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.alerted = true
	fmt.Fprintln(t.out, message)
}

// Confirm accepts "y" and "yes" in any case; anything else, EOF included, declines.
func (t *terminal) Confirm(message string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.assumeYes {
		return true
	}

	fmt.Fprintf(t.out, "%s [y/N] ", message)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Alerted reports whether any alert was shown.
func (t *terminal) Alerted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alerted
}
