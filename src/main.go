package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

const (
	exitOK    = 0
	exitUsage = 1
	// exitReadErr is the abnormal exit for a fatal keyboard read: the
	// normal error report would need a confirmation keystroke from the
	// broken reader.
	exitReadErr = 2
)

var debugMode = os.Getenv("PERUSE_DEBUG") == "1"

func debugf(format string, args ...any) {
	if debugMode {
		fmt.Fprintf(os.Stderr, "[peruse] "+format+"\n", args...)
	}
}

func main() {
	exitCode := exitOK
	defer func() { os.Exit(exitCode) }()

	args := os.Args[1:]
	if len(args) > 0 && strings.EqualFold(args[0], "script") {
		exitCode = runScript(args[1:])
		return
	}
	if len(args) > 0 && isHelpArg(args[0]) {
		printUsage()
		return
	}

	fs := flag.NewFlagSet("peruse", flag.ContinueOnError)
	fs.Usage = printUsage
	cmds := fs.String("k", "", "commands to run before reading the keyboard")
	mouseFlag := fs.Bool("mouse", false, "capture mouse and wheel events")
	ttyFlag := fs.String("tty", "", "read keystrokes from this device instead of the terminal")
	wheelFlag := fs.Int("w", 0, "lines per wheel notch (0 = platform default)")
	stderrFlag := fs.Bool("stderr-input", false, "read commands from stderr when stdout is the terminal")
	if err := fs.Parse(args); err != nil {
		exitCode = exitUsage
		return
	}

	cfg, _ := loadConfig()
	applyEnvOverrides(&cfg)
	if *wheelFlag > 0 {
		cfg.WheelLines = *wheelFlag
	}
	if *mouseFlag {
		cfg.Mouse = true
	}
	if *ttyFlag != "" {
		cfg.TTY = *ttyFlag
	}
	if *stderrFlag {
		cfg.StderrInput = true
	}

	path := ""
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" && isTerminal(int(os.Stdin.Fd())) {
		printUsage()
		exitCode = exitUsage
		return
	}

	name, lines, err := loadLines(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "peruse:", err)
		exitCode = exitUsage
		return
	}

	if !isTerminal(int(os.Stdout.Fd())) {
		// Output is redirected: no paging, just copy the file through.
		w := bufio.NewWriter(os.Stdout)
		for _, l := range lines {
			w.WriteString(l)
			w.WriteByte('\n')
		}
		_ = w.Flush()
		return
	}

	// The interrupt flag is raised here and only observed below.
	var intr atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		for range sigCh {
			intr.Store(true)
		}
	}()

	con := newConsole(&intr)
	if err := con.Open(cfg.TTY); err != nil {
		fmt.Fprintln(os.Stderr, "peruse: open console:", err)
		exitCode = exitUsage
		return
	}
	defer func() { _ = con.Close() }()
	debugf("console open fd=%d tty=%q", con.Fd(), cfg.TTY)

	ts, err := makeRaw(int(con.Fd()))
	if err != nil {
		// Playback devices are not terminals; page without raw mode.
		debugf("raw mode unavailable: %v", err)
		ts = nil
	}
	defer func() {
		if ts != nil {
			_ = ts.restore()
		}
	}()

	out := bufio.NewWriter(os.Stdout)
	p := newPager(name, lines, out, &intr)
	p.wheel = wheelLines(cfg)

	rd := newInputReader(con)
	rd.flush = func() { _ = out.Flush() }
	rd.playback = con.Playback()
	rd.dump = p.dumpScreen
	rd.stderrInput = cfg.StderrInput && isTerminal(int(os.Stdout.Fd()))
	if *cmds != "" {
		rd.SetCommandInput(*cmds, true)
	}

	if cfg.Mouse {
		_ = con.SetMode(modeMouse)
		p.enableMouse()
	}

	exitCode = p.run(rd, con, ts)

	p.disableMouse()
	out.WriteString("\r\x1b[K")
	_ = out.Flush()
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: peruse [-k commands] [-mouse] [-w lines] [-tty device] [file]")
	fmt.Fprintln(os.Stderr, "       peruse script [-o transcript] [-keys file] -- command [args...]")
}

func isHelpArg(arg string) bool {
	switch strings.TrimSpace(strings.ToLower(arg)) {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

type appConfig struct {
	WheelLines  int
	Mouse       bool
	StderrInput bool
	TTY         string
}

func loadConfig() (appConfig, bool) {
	path, ok := findConfigPath()
	if !ok {
		return appConfig{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		debugf("config read failed: %v", err)
		return appConfig{}, false
	}
	cfg, err := parseConfig(data)
	if err != nil {
		debugf("config parse failed: %v", err)
		return appConfig{}, false
	}
	return cfg, true
}

func parseConfig(data []byte) (appConfig, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return appConfig{}, err
	}
	return appConfig{
		WheelLines:  intFromAny(raw["wheel_lines"]),
		Mouse:       boolFromAny(raw["mouse"]),
		StderrInput: boolFromAny(raw["stderr_input"]),
		TTY:         stringFromAny(raw["tty"]),
	}, nil
}

func findConfigPath() (string, bool) {
	if p := strings.TrimSpace(os.Getenv("PERUSE_CONFIG")); p != "" {
		if fileExists(p) {
			return p, true
		}
	}
	cwd, _ := os.Getwd()
	paths := []string{
		filepath.Join(cwd, "peruse.yaml"),
		filepath.Join(cwd, "peruse.yml"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "peruse", "config.yaml"),
			filepath.Join(home, ".config", "peruse", "config.yml"),
			filepath.Join(home, ".peruse.yaml"),
			filepath.Join(home, ".peruse.yml"),
		)
	}
	for _, p := range paths {
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
}

func applyEnvOverrides(cfg *appConfig) {
	if v := strings.TrimSpace(os.Getenv("PERUSE_TTY")); v != "" {
		cfg.TTY = v
	}
	if v := strings.TrimSpace(os.Getenv("PERUSE_WHEEL_LINES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WheelLines = n
		}
	}
	if os.Getenv("PERUSE_MOUSE") == "1" {
		cfg.Mouse = true
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func stringFromAny(val any) string {
	switch v := val.(type) {
	case string:
		return strings.TrimSpace(v)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

func intFromAny(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

func boolFromAny(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		switch strings.TrimSpace(strings.ToLower(v)) {
		case "1", "true", "yes", "on":
			return true
		}
	case int:
		return v != 0
	}
	return false
}
