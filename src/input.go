package main

import (
	"os"
)

const (
	// charEOF means the input source is exhausted.
	charEOF = -1
	// charIntr means an interrupt arrived while reading.
	charIntr = -2

	// nullSentinel replaces a literal NUL byte: callers reserve 0 as
	// "no character".
	nullSentinel = 0xE0

	// dumpChar (ctrl-]) triggers a screen dump during scripted
	// playback instead of being treated as input.
	dumpChar = 0x1D
)

// Replaceable for tests; the defaults are the platform probes.
var (
	stderrReadable  = defaultStderrReadable
	readStderrChunk = defaultReadStderrChunk
)

// inputReader turns raw keyboard reads into one clean character per
// call. It owns the pre-supplied command cursor, the stderr command
// fallback, and NUL sanitization; the console underneath owns the
// device.
type inputReader struct {
	con console

	flush func()        // makes the prompt visible before blocking
	dump  func()        // playback screen-dump collaborator
	bail  func(code int) // abnormal exit for fatal read errors

	playback bool // a playback override device is in use

	// Pre-supplied commands, consumed before the device. A nil slice
	// means no cursor; an exhausted cursor may still owe a newline.
	alt        []byte
	altNewline bool

	// Buffered stderr command input. Degrades permanently to the
	// device once stderr proves unreadable.
	stderrInput bool
	errbuf      [512]byte
	errpos      int
	errlen      int
}

func newInputReader(con console) *inputReader {
	return &inputReader{
		con:   con,
		flush: func() {},
		bail:  os.Exit,
	}
}

// SetCommandInput installs a command string to be consumed before any
// device reads. With newline set, a single '\n' is synthesized after the
// string is exhausted.
func (r *inputReader) SetCommandInput(s string, newline bool) {
	r.alt = []byte(s)
	r.altNewline = newline
}

// NextChar returns the next input character, charIntr on interrupt, or
// charEOF when the source is exhausted. A fatal read error does not
// return: reporting it would need a confirmation keystroke from this
// same reader, so the process exits through bail instead.
func (r *inputReader) NextChar() int {
	if r.alt != nil {
		if len(r.alt) > 0 {
			c := r.alt[0]
			r.alt = r.alt[1:]
			return int(c) & 0xFF
		}
		r.alt = nil
		if r.altNewline {
			r.altNewline = false
			return '\n'
		}
	}

	if r.stderrInput {
		if c, ok := r.stderrChar(); ok {
			return int(c) & 0xFF
		}
	}

	for {
		r.flush()
		c, st := r.con.ReadOne()
		switch st {
		case readIntr:
			return charIntr
		case readErr:
			r.bail(exitReadErr)
			return charIntr
		case readEOF:
			return charEOF
		}
		if r.playback && c == dumpChar {
			if r.dump != nil {
				r.dump()
			}
			continue
		}
		if c == 0 {
			c = nullSentinel
		}
		return int(c) & 0xFF
	}
}

// stderrChar serves one byte of buffered stderr input. The first time
// stderr turns out not to be readable the fallback switches itself off
// for the rest of the session.
func (r *inputReader) stderrChar() (byte, bool) {
	if r.errpos == r.errlen {
		if !stderrReadable() {
			r.stderrInput = false
			return 0, false
		}
		n, err := readStderrChunk(r.errbuf[:])
		if n <= 0 || err != nil {
			r.stderrInput = false
			return 0, false
		}
		r.errlen = n
		r.errpos = 0
	}
	c := r.errbuf[r.errpos]
	r.errpos++
	return c, true
}

// wheelLines is the number of lines one wheel notch scrolls: an explicit
// config value wins, otherwise the platform preference (default 1).
func wheelLines(cfg appConfig) int {
	if cfg.WheelLines > 0 {
		return cfg.WheelLines
	}
	return defaultWheelLines()
}
