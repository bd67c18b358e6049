package main

// ttyMode selects the console input configuration.
type ttyMode int

const (
	// modeBase delivers interrupt events and plain key bytes.
	modeBase ttyMode = iota
	// modeMouse additionally captures pointer and wheel events.
	modeMouse
)

// readStatus tags the outcome of a single keyboard read.
type readStatus int

const (
	readOK readStatus = iota
	readEOF
	readIntr
	readErr
)

// console is the platform-independent interface to the keyboard device.
// Exactly one console is open at a time; Open and Close must not run
// concurrently with ReadOne.
type console interface {
	// Open locates and opens the keyboard device. override names a
	// substitute device for scripted playback; empty means the real
	// terminal. Open captures the device's original configuration and
	// applies the base mode.
	Open(override string) error

	// Close restores the configuration captured by Open and releases
	// the device. Safe on a console that never fully opened.
	Close() error

	// SetMode switches between base and mouse mode. Idempotent.
	SetMode(m ttyMode) error

	// Mode reports the currently requested mode.
	Mode() ttyMode

	// Playback reports whether Open actually honored a playback
	// override. Platforms with a fixed console device ignore the
	// override and report false.
	Playback() bool

	// ReapplyMode re-asserts the current mode on the device. Needed
	// after a child process shares the console: some shells reset the
	// console state on exit, losing mouse capture.
	ReapplyMode()

	// ReadOne blocks for a single input byte. It returns readIntr as
	// soon as the interrupt flag is raised, without consuming any byte
	// that arrived concurrently.
	ReadOne() (byte, readStatus)

	// Fd returns the device descriptor or handle.
	Fd() uintptr
}
