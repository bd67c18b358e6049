package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// scriptPTY is the platform-independent interface to the pseudo-terminal
// hosting a scripted run.
type scriptPTY interface {
	// Read reads command output from the pseudo-terminal
	Read(p []byte) (n int, err error)

	// Write feeds keystrokes to the command
	Write(p []byte) (n int, err error)

	// Resize changes the pseudo-terminal window size
	Resize(rows, cols uint16) error

	// Close closes the pseudo-terminal
	Close() error

	// Wait waits for the command to exit and returns its exit code
	Wait() (int, error)
}

// runScript runs a command under a pseudo-terminal, optionally plays a
// recorded keystroke file into it, and captures everything the command
// writes. Together with the pager's -tty playback device this gives a
// record and replay loop for terminal sessions.
func runScript(args []string) int {
	fs := flag.NewFlagSet("peruse script", flag.ContinueOnError)
	fs.Usage = printUsage
	out := fs.String("o", "transcript.log", "transcript output file")
	keys := fs.String("keys", "", "keystroke file to feed to the command")
	delay := fs.Duration("delay", 50*time.Millisecond, "gap between scripted keystrokes")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	cmdArgs := fs.Args()
	if len(cmdArgs) > 0 && cmdArgs[0] == "--" {
		cmdArgs = cmdArgs[1:]
	}
	if len(cmdArgs) == 0 {
		printUsage()
		return exitUsage
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "peruse: script:", err)
		return exitUsage
	}
	defer f.Close()

	cmd := exec.Command(cmdArgs[0], cmdArgs[1:]...)
	pt, err := startScriptPTY(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "peruse: script:", err)
		return exitUsage
	}
	defer pt.Close()

	if *keys != "" {
		data, err := os.ReadFile(*keys)
		if err != nil {
			fmt.Fprintln(os.Stderr, "peruse: script:", err)
			return exitUsage
		}
		go playKeys(pt, data, *delay)
	} else if isTerminal(int(os.Stdin.Fd())) {
		// Interactive recording: pass the real keyboard through.
		if ts, err := makeRaw(int(os.Stdin.Fd())); err == nil {
			defer func() { _ = ts.restore() }()
		}
		go func() { _, _ = io.Copy(pt, os.Stdin) }()
	}

	// Mirror command output to the terminal and the transcript.
	buf := make([]byte, 32*1024)
	for {
		n, err := pt.Read(buf)
		if n > 0 {
			_, _ = os.Stdout.Write(buf[:n])
			_, _ = f.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
	code, _ := pt.Wait()
	debugf("script done code=%d transcript=%s", code, *out)
	return code
}

// playKeys feeds recorded keystrokes one byte at a time; full-speed
// writes would outrun a program that repaints between keys.
func playKeys(pt scriptPTY, data []byte, delay time.Duration) {
	for _, b := range data {
		if _, err := pt.Write([]byte{b}); err != nil {
			return
		}
		time.Sleep(delay)
	}
}
