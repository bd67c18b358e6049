//go:build windows

package main

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

// ttyPollInterval is the wait timeout in milliseconds between interrupt
// flag checks while blocked on the console.
const ttyPollInterval = 50

const (
	spiGetWheelScrollLines = 0x0068
	wheelPageScroll        = 0xFFFFFFFF
)

var (
	user32                    = windows.NewLazySystemDLL("user32.dll")
	procSystemParametersInfoW = user32.NewProc("SystemParametersInfoW")
)

// windowsConsole reads the keyboard through a CONIN$ handle and manages
// the console input mode: the mode active before Open is restored by
// Close, base mode keeps ctrl-C events flowing without device-level VT
// reinterpretation, and mouse mode adds pointer capture while disabling
// quick-edit so selections do not steal input from the pager.
type windowsConsole struct {
	handle    windows.Handle
	opened    bool
	initMode  uint32
	baseMode  uint32
	mouseMode uint32
	currMode  uint32
	mode      ttyMode
	intr      *atomic.Bool
}

func newConsole(intr *atomic.Bool) console {
	return &windowsConsole{intr: intr}
}

// Open opens CONIN$ with an inheritable handle so child processes share
// the console. The playback override has no meaning here: the console
// device has a fixed name.
func (c *windowsConsole) Open(override string) error {
	_ = override
	sa := windows.SecurityAttributes{InheritHandle: 1}
	sa.Length = uint32(unsafe.Sizeof(sa))
	name, err := windows.UTF16PtrFromString("CONIN$")
	if err != nil {
		return err
	}
	h, err := windows.CreateFile(name,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ, &sa,
		windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		return err
	}
	c.handle = h
	c.opened = true
	if err := windows.GetConsoleMode(h, &c.initMode); err != nil {
		return err
	}
	// Base mode: keep ctrl-C delivered as an event, read single raw
	// bytes (ReadFile needs line input and echo off), no VT input.
	c.baseMode = (c.initMode | windows.ENABLE_PROCESSED_INPUT) &^
		(windows.ENABLE_VIRTUAL_TERMINAL_INPUT |
			windows.ENABLE_LINE_INPUT |
			windows.ENABLE_ECHO_INPUT)
	c.mouseMode = (c.baseMode |
		windows.ENABLE_MOUSE_INPUT |
		windows.ENABLE_EXTENDED_FLAGS) &^
		windows.ENABLE_QUICK_EDIT_MODE
	c.currMode = c.baseMode
	c.mode = modeBase
	return windows.SetConsoleMode(h, c.currMode)
}

// Close restores the pre-session console mode. Safe when Open failed
// partway: nothing is touched unless the handle was acquired.
func (c *windowsConsole) Close() error {
	if !c.opened {
		return nil
	}
	c.opened = false
	_ = windows.SetConsoleMode(c.handle, c.initMode)
	return windows.CloseHandle(c.handle)
}

func (c *windowsConsole) SetMode(m ttyMode) error {
	want := c.baseMode
	if m == modeMouse {
		want = c.mouseMode
	}
	c.mode = m
	if c.currMode == want {
		return nil
	}
	c.currMode = want
	return windows.SetConsoleMode(c.handle, c.currMode)
}

func (c *windowsConsole) Mode() ttyMode { return c.mode }

// Playback is always false here: Open ignores the override, so a real
// ctrl-] keystroke must stay ordinary input.
func (c *windowsConsole) Playback() bool { return false }

// ReapplyMode re-asserts the current mode. CMD resets the console mode
// as a side effect of running a child, losing mouse capture.
func (c *windowsConsole) ReapplyMode() {
	if c.opened {
		_ = windows.SetConsoleMode(c.handle, c.currMode)
	}
}

func (c *windowsConsole) Fd() uintptr { return uintptr(c.handle) }

// ReadOne waits on the console handle and reads one byte. The raw read
// does not observe interrupts itself, so the interrupt flag is polled on
// every wait timeout and a zero-byte transfer (a non-key console event)
// just retries.
func (c *windowsConsole) ReadOne() (byte, readStatus) {
	var b [1]byte
	for {
		if c.intr.Load() {
			return 0, readIntr
		}
		ev, err := windows.WaitForSingleObject(c.handle, ttyPollInterval)
		if err != nil {
			return 0, readErr
		}
		if ev != windows.WAIT_OBJECT_0 {
			continue
		}
		if c.intr.Load() {
			return 0, readIntr
		}
		var done uint32
		if err := windows.ReadFile(c.handle, b[:], &done, nil); err != nil {
			return 0, readErr
		}
		if done == 0 {
			continue
		}
		if b[0] == 0x03 {
			return 0, readIntr
		}
		return b[0], readOK
	}
}

// defaultWheelLines asks the system how many lines one wheel notch
// scrolls. The page-scroll magic value maps to a fixed 3.
func defaultWheelLines() int {
	var lines uint32 = 1
	r, _, _ := procSystemParametersInfoW.Call(
		spiGetWheelScrollLines, 0, uintptr(unsafe.Pointer(&lines)), 0)
	if r == 0 {
		return 1
	}
	if lines == wheelPageScroll {
		return 3
	}
	if lines == 0 {
		return 1
	}
	return int(lines)
}

// The stderr command fallback is a Unix-only degradation path.
func defaultStderrReadable() bool { return false }

func defaultReadStderrChunk(buf []byte) (int, error) { return 0, nil }
