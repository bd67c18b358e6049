//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

// termState holds the output-side terminal state for Windows; the input
// side belongs to the console session.
type termState struct {
	outHandle windows.Handle
	outMode   uint32
	rawMode   uint32
}

// isTerminal returns true if the file descriptor is a terminal
func isTerminal(fd int) bool {
	h := windows.Handle(fd)
	var mode uint32
	err := windows.GetConsoleMode(h, &mode)
	return err == nil
}

// makeRaw enables VT processing on the output handle so escape
// sequences drawn by the pager work, and returns a state to restore
// later. Input stays untouched here: CONIN$ modes are the session's.
func makeRaw(fd int) (*termState, error) {
	_ = fd
	outHandle := windows.Handle(os.Stdout.Fd())

	var outMode uint32
	if err := windows.GetConsoleMode(outHandle, &outMode); err != nil {
		return nil, err
	}

	rawOutMode := outMode
	rawOutMode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
	rawOutMode |= windows.DISABLE_NEWLINE_AUTO_RETURN

	if err := windows.SetConsoleMode(outHandle, rawOutMode); err != nil {
		return nil, err
	}

	return &termState{
		outHandle: outHandle,
		outMode:   outMode,
		rawMode:   rawOutMode,
	}, nil
}

// restore restores the terminal to its previous state
func (t *termState) restore() error {
	return windows.SetConsoleMode(t.outHandle, t.outMode)
}

// reapply re-enables VT output after a shell escape.
func (t *termState) reapply() {
	_ = windows.SetConsoleMode(t.outHandle, t.rawMode)
}

// getConsoleSize returns the current console size (cols, rows)
func getConsoleSize() (int, int) {
	h := windows.Handle(os.Stdout.Fd())
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(h, &info); err != nil {
		return 80, 24
	}
	cols := int(info.Window.Right - info.Window.Left + 1)
	rows := int(info.Window.Bottom - info.Window.Top + 1)
	return cols, rows
}
