//go:build !windows

package main

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// unixScriptPTY wraps creack/pty for Unix systems
type unixScriptPTY struct {
	ptmx *os.File
	cmd  *exec.Cmd
}

// startScriptPTY starts a command under a pseudo-terminal on Unix
func startScriptPTY(cmd *exec.Cmd) (scriptPTY, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	p := &unixScriptPTY{ptmx: ptmx, cmd: cmd}
	if isTerminal(int(os.Stdin.Fd())) {
		_ = pty.InheritSize(os.Stdin, ptmx)
	} else {
		_ = p.Resize(24, 80)
	}
	return p, nil
}

func (p *unixScriptPTY) Read(buf []byte) (int, error) {
	return p.ptmx.Read(buf)
}

func (p *unixScriptPTY) Write(buf []byte) (int, error) {
	return p.ptmx.Write(buf)
}

func (p *unixScriptPTY) Resize(rows, cols uint16) error {
	return pty.Setsize(p.ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}

func (p *unixScriptPTY) Close() error {
	return p.ptmx.Close()
}

// Wait waits for the command to exit and returns the exit code
func (p *unixScriptPTY) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 1, err
}
