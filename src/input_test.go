package main

import (
	"testing"
)

type fakeStep struct {
	b  byte
	st readStatus
}

// fakeConsole plays a scripted sequence of read outcomes.
type fakeConsole struct {
	steps []fakeStep
	reads int
	mode  ttyMode
}

func (f *fakeConsole) Open(string) error       { return nil }
func (f *fakeConsole) Close() error            { return nil }
func (f *fakeConsole) SetMode(m ttyMode) error { f.mode = m; return nil }
func (f *fakeConsole) Mode() ttyMode           { return f.mode }
func (f *fakeConsole) Playback() bool          { return false }
func (f *fakeConsole) ReapplyMode()            {}
func (f *fakeConsole) Fd() uintptr             { return 0 }

func (f *fakeConsole) ReadOne() (byte, readStatus) {
	f.reads++
	if len(f.steps) == 0 {
		return 0, readEOF
	}
	s := f.steps[0]
	f.steps = f.steps[1:]
	return s.b, s.st
}

func feed(bytes ...byte) *fakeConsole {
	fc := &fakeConsole{}
	for _, b := range bytes {
		fc.steps = append(fc.steps, fakeStep{b: b, st: readOK})
	}
	return fc
}

func newTestReader(fc *fakeConsole) *inputReader {
	return newInputReader(fc)
}

func TestNextCharPassthrough(t *testing.T) {
	rd := newTestReader(feed('q'))
	if c := rd.NextChar(); c != 'q' {
		t.Fatalf("NextChar=%d want 'q'", c)
	}
}

func TestNextCharAllBytes(t *testing.T) {
	for b := 1; b <= 255; b++ {
		rd := newTestReader(feed(byte(b)))
		if c := rd.NextChar(); c != b {
			t.Fatalf("byte %#x came back as %#x", b, c)
		}
	}
}

func TestNextCharNullSentinel(t *testing.T) {
	rd := newTestReader(feed(0))
	if c := rd.NextChar(); c != nullSentinel {
		t.Fatalf("NUL came back as %#x want %#x", c, nullSentinel)
	}
}

func TestNextCharFlushesBeforeRead(t *testing.T) {
	rd := newTestReader(feed('a', 'b'))
	flushes := 0
	rd.flush = func() { flushes++ }
	rd.NextChar()
	rd.NextChar()
	if flushes != 2 {
		t.Fatalf("flushes=%d want 2", flushes)
	}
}

func TestCommandInput(t *testing.T) {
	fc := feed('x')
	rd := newTestReader(fc)
	rd.SetCommandInput("abc", true)
	want := []int{'a', 'b', 'c', '\n'}
	for i, w := range want {
		if c := rd.NextChar(); c != w {
			t.Fatalf("call %d: got %q want %q", i, c, w)
		}
	}
	if fc.reads != 0 {
		t.Fatalf("device read while command input pending: reads=%d", fc.reads)
	}
	if c := rd.NextChar(); c != 'x' {
		t.Fatalf("device did not resume: got %q", c)
	}
}

func TestCommandInputNoNewline(t *testing.T) {
	rd := newTestReader(feed('x'))
	rd.SetCommandInput("ab", false)
	for _, w := range []int{'a', 'b', 'x'} {
		if c := rd.NextChar(); c != w {
			t.Fatalf("got %q want %q", c, w)
		}
	}
}

func TestInterruptSentinel(t *testing.T) {
	fc := &fakeConsole{steps: []fakeStep{{st: readIntr}}}
	rd := newTestReader(fc)
	if c := rd.NextChar(); c != charIntr {
		t.Fatalf("NextChar=%d want charIntr", c)
	}
}

func TestEOFSentinel(t *testing.T) {
	rd := newTestReader(&fakeConsole{})
	if c := rd.NextChar(); c != charEOF {
		t.Fatalf("NextChar=%d want charEOF", c)
	}
}

// A fatal read must take the abnormal-exit path without a second read
// attempt: the error reporter would recurse into this reader.
func TestFatalReadBailsWithoutRetry(t *testing.T) {
	fc := &fakeConsole{steps: []fakeStep{{st: readErr}, {b: 'x', st: readOK}}}
	rd := newTestReader(fc)
	code := -1
	rd.bail = func(c int) { code = c }
	rd.NextChar()
	if code != exitReadErr {
		t.Fatalf("bail code=%d want %d", code, exitReadErr)
	}
	if fc.reads != 1 {
		t.Fatalf("reads=%d want 1 (no retry after fatal error)", fc.reads)
	}
}

func TestDumpCharSwallowedInPlayback(t *testing.T) {
	rd := newTestReader(feed(dumpChar, 'z'))
	rd.playback = true
	dumps := 0
	rd.dump = func() { dumps++ }
	if c := rd.NextChar(); c != 'z' {
		t.Fatalf("NextChar=%q want 'z'", c)
	}
	if dumps != 1 {
		t.Fatalf("dumps=%d want 1", dumps)
	}
}

func TestDumpCharPassesThroughLive(t *testing.T) {
	rd := newTestReader(feed(dumpChar))
	if c := rd.NextChar(); c != dumpChar {
		t.Fatalf("NextChar=%#x want %#x", c, dumpChar)
	}
}

func TestStderrFallbackDisablesPermanently(t *testing.T) {
	oldProbe := stderrReadable
	defer func() { stderrReadable = oldProbe }()
	probes := 0
	stderrReadable = func() bool { probes++; return false }

	rd := newTestReader(feed('x', 'y'))
	rd.stderrInput = true
	if c := rd.NextChar(); c != 'x' {
		t.Fatalf("got %q want 'x'", c)
	}
	if c := rd.NextChar(); c != 'y' {
		t.Fatalf("got %q want 'y'", c)
	}
	if probes != 1 {
		t.Fatalf("probes=%d want 1 (fallback must not flap back)", probes)
	}
	if rd.stderrInput {
		t.Fatalf("fallback still enabled after unreadable probe")
	}
}

func TestStderrFallbackServesBufferedInput(t *testing.T) {
	oldProbe, oldRead := stderrReadable, readStderrChunk
	defer func() { stderrReadable, readStderrChunk = oldProbe, oldRead }()
	fed := false
	stderrReadable = func() bool { return !fed }
	readStderrChunk = func(buf []byte) (int, error) {
		fed = true
		return copy(buf, "hi"), nil
	}

	rd := newTestReader(feed('x'))
	rd.stderrInput = true
	for _, w := range []int{'h', 'i', 'x'} {
		if c := rd.NextChar(); c != w {
			t.Fatalf("got %q want %q", c, w)
		}
	}
}

func TestWheelLinesOverride(t *testing.T) {
	if n := wheelLines(appConfig{WheelLines: 7}); n != 7 {
		t.Fatalf("wheelLines=%d want 7", n)
	}
	if n := wheelLines(appConfig{}); n != defaultWheelLines() {
		t.Fatalf("wheelLines=%d want platform default %d", n, defaultWheelLines())
	}
}
