//go:build !windows

package main

import (
	"golang.org/x/term"
)

// termState holds the terminal state for Unix
type termState struct {
	fd    int
	state *term.State
}

// isTerminal returns true if the file descriptor is a terminal
func isTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// makeRaw puts the terminal into single-keystroke mode and returns a
// state to restore later
func makeRaw(fd int) (*termState, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &termState{fd: fd, state: state}, nil
}

// restore restores the terminal to its previous state
func (t *termState) restore() error {
	return term.Restore(t.fd, t.state)
}

// reapply re-enters raw mode after a shell escape; the saved original
// state is kept for the final restore.
func (t *termState) reapply() {
	_, _ = term.MakeRaw(t.fd)
}
