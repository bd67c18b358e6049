package main

import (
	"os"
	"os/exec"
	"runtime"
)

// runShell runs a command line with the console shared. The child reads
// from the terminal device, not from the pager's (possibly redirected)
// standard input. The caller re-applies console and terminal modes
// afterwards; shells are known to reset them.
func runShell(cmdline string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", cmdline)
	} else {
		sh := os.Getenv("SHELL")
		if sh == "" {
			sh = "/bin/sh"
		}
		cmd = exec.Command(sh, "-c", cmdline)
	}
	cmd.Stdin = os.Stdin
	if runtime.GOOS != "windows" {
		if f, err := os.Open("/dev/tty"); err == nil {
			defer f.Close()
			cmd.Stdin = f
		}
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
