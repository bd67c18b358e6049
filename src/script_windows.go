//go:build windows

package main

import (
	"context"
	"os/exec"

	"github.com/UserExistsError/conpty"
)

// windowsScriptPTY wraps conpty for Windows systems
type windowsScriptPTY struct {
	cpty *conpty.ConPty
}

// startScriptPTY starts a command under a ConPTY on Windows
func startScriptPTY(cmd *exec.Cmd) (scriptPTY, error) {
	cols, rows := getConsoleSize()

	cmdLine := cmd.Path
	if len(cmd.Args) > 1 {
		for _, arg := range cmd.Args[1:] {
			cmdLine += " " + arg
		}
	}

	cpty, err := conpty.Start(cmdLine, conpty.ConPtyDimensions(cols, rows))
	if err != nil {
		return nil, err
	}
	return &windowsScriptPTY{cpty: cpty}, nil
}

func (p *windowsScriptPTY) Read(buf []byte) (int, error) {
	return p.cpty.Read(buf)
}

func (p *windowsScriptPTY) Write(buf []byte) (int, error) {
	return p.cpty.Write(buf)
}

func (p *windowsScriptPTY) Resize(rows, cols uint16) error {
	return p.cpty.Resize(int(cols), int(rows))
}

func (p *windowsScriptPTY) Close() error {
	return p.cpty.Close()
}

// Wait waits for the ConPTY command to exit and returns the exit code
func (p *windowsScriptPTY) Wait() (int, error) {
	exitCode, err := p.cpty.Wait(context.Background())
	return int(exitCode), err
}
