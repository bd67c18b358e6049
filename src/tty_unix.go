//go:build !windows

package main

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ttyPollInterval is the poll timeout in milliseconds; each timeout
// re-checks the interrupt flag so a blocked read unblocks promptly.
const ttyPollInterval = 50

// locateTTY picks the keyboard descriptor. Try the playback override,
// then the terminal attached to stderr, then /dev/tty, then fall back to
// stderr itself, which is usually still attached to the keyboard. There
// is no error return: the caller has no recovery if input is unavailable.
// The bool reports whether the override won; a missing override falls
// back to the live terminal and must not count as playback.
func locateTTY(override string) (int, bool) {
	if override != "" {
		if fd, err := unix.Open(override, unix.O_RDONLY, 0); err == nil {
			return fd, true
		}
	}
	if dev := stderrTTYName(); dev != "" {
		if fd, err := unix.Open(dev, unix.O_RDONLY, 0); err == nil {
			return fd, false
		}
	}
	if fd, err := unix.Open("/dev/tty", unix.O_RDONLY, 0); err == nil {
		return fd, false
	}
	return unix.Stderr, false
}

// stderrTTYName resolves the device name behind stderr via procfs.
// Platforms without procfs fall through to the /dev/tty probe.
func stderrTTYName() string {
	if !term.IsTerminal(unix.Stderr) {
		return ""
	}
	name, err := os.Readlink(fmt.Sprintf("/proc/self/fd/%d", unix.Stderr))
	if err != nil || !strings.HasPrefix(name, "/dev/") {
		return ""
	}
	return name
}

// unixConsole reads the keyboard through a plain file descriptor. Unix
// has no console mode concept at this layer (pointer capture is done by
// the screen layer with escape sequences), so modes are only recorded.
type unixConsole struct {
	fd       int
	ownsFD   bool
	playback bool
	mode     ttyMode
	intr     *atomic.Bool
}

func newConsole(intr *atomic.Bool) console {
	return &unixConsole{fd: -1, intr: intr}
}

func (c *unixConsole) Open(override string) error {
	c.fd, c.playback = locateTTY(override)
	c.ownsFD = c.fd != unix.Stderr
	c.mode = modeBase
	return nil
}

func (c *unixConsole) Close() error {
	fd := c.fd
	c.fd = -1
	if fd < 0 || !c.ownsFD {
		return nil
	}
	return unix.Close(fd)
}

func (c *unixConsole) SetMode(m ttyMode) error {
	c.mode = m
	return nil
}

func (c *unixConsole) Mode() ttyMode { return c.mode }

func (c *unixConsole) Playback() bool { return c.playback }

func (c *unixConsole) ReapplyMode() {}

func (c *unixConsole) Fd() uintptr { return uintptr(c.fd) }

// ReadOne polls the descriptor and reads one byte. The interrupt flag is
// checked before every wait and again after a successful wait, before the
// read, so an interrupt never consumes or discards a pending byte.
func (c *unixConsole) ReadOne() (byte, readStatus) {
	var b [1]byte
	for {
		if c.intr.Load() {
			return 0, readIntr
		}
		fds := []unix.PollFd{{
			Fd:     int32(c.fd),
			Events: unix.POLLIN | unix.POLLHUP | unix.POLLERR,
		}}
		n, err := unix.Poll(fds, ttyPollInterval)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, readErr
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&unix.POLLNVAL != 0 {
			return 0, readErr
		}
		if c.intr.Load() {
			return 0, readIntr
		}
		nr, err := unix.Read(c.fd, b[:])
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return 0, readErr
		}
		if nr == 0 {
			return 0, readEOF
		}
		if b[0] == 0x03 {
			// Raw mode clears ISIG, so ctrl-C arrives as a plain
			// byte instead of a signal. Treat it here.
			return 0, readIntr
		}
		return b[0], readOK
	}
}

// defaultWheelLines is the number of lines one wheel notch scrolls.
// There is no system preference to consult here.
func defaultWheelLines() int { return 1 }

// defaultStderrReadable reports whether stderr has buffered input right
// now, without blocking.
func defaultStderrReadable() bool {
	fds := []unix.PollFd{{Fd: int32(unix.Stderr), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	return err == nil && n > 0 && fds[0].Revents&unix.POLLIN != 0
}

func defaultReadStderrChunk(buf []byte) (int, error) {
	return unix.Read(unix.Stderr, buf)
}
