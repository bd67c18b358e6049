package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]byte("wheel_lines: 4\nmouse: true\nstderr_input: yes\ntty: /dev/pts/9\n"))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.WheelLines != 4 || !cfg.Mouse || !cfg.StderrInput || cfg.TTY != "/dev/pts/9" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestParseConfigCoercions(t *testing.T) {
	cfg, err := parseConfig([]byte("wheel_lines: \"6\"\nmouse: \"on\"\n"))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.WheelLines != 6 || !cfg.Mouse {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestParseConfigBad(t *testing.T) {
	if _, err := parseConfig([]byte("\t: {")); err == nil {
		t.Fatalf("bad yaml should not parse")
	}
}

func TestFindConfigPathEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("mouse: true\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PERUSE_CONFIG", path)
	got, ok := findConfigPath()
	if !ok || got != path {
		t.Fatalf("findConfigPath=%q ok=%v", got, ok)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PERUSE_TTY", "/dev/pts/3")
	t.Setenv("PERUSE_WHEEL_LINES", "5")
	t.Setenv("PERUSE_MOUSE", "1")
	cfg := appConfig{}
	applyEnvOverrides(&cfg)
	if cfg.TTY != "/dev/pts/3" || cfg.WheelLines != 5 || !cfg.Mouse {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestApplyEnvOverridesIgnoresJunk(t *testing.T) {
	t.Setenv("PERUSE_WHEEL_LINES", "lots")
	t.Setenv("PERUSE_MOUSE", "0")
	cfg := appConfig{WheelLines: 2}
	applyEnvOverrides(&cfg)
	if cfg.WheelLines != 2 || cfg.Mouse {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestIsHelpArg(t *testing.T) {
	for _, arg := range []string{"-h", "--help", "help", " HELP "} {
		if !isHelpArg(arg) {
			t.Fatalf("%q should be help", arg)
		}
	}
	for _, arg := range []string{"file.txt", "-k", "script"} {
		if isHelpArg(arg) {
			t.Fatalf("%q should not be help", arg)
		}
	}
}

func TestStringFromAny(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{" x ", "x"},
		{7, "7"},
		{uint8(3), "3"},
		{nil, ""},
		{true, ""},
	}
	for _, c := range cases {
		if got := stringFromAny(c.in); got != c.want {
			t.Fatalf("stringFromAny(%v)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestIntFromAny(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{3, 3},
		{int64(4), 4},
		{float64(5), 5},
		{" 6 ", 6},
		{"x", 0},
		{nil, 0},
	}
	for _, c := range cases {
		if got := intFromAny(c.in); got != c.want {
			t.Fatalf("intFromAny(%v)=%d want %d", c.in, got, c.want)
		}
	}
}

func TestBoolFromAny(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{"yes", true},
		{"ON", true},
		{1, true},
		{"no", false},
		{0, false},
		{nil, false},
	}
	for _, c := range cases {
		if got := boolFromAny(c.in); got != c.want {
			t.Fatalf("boolFromAny(%v)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if fileExists(dir) {
		t.Fatalf("directories are not config files")
	}
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !fileExists(path) {
		t.Fatalf("fileExists(%q)=false", path)
	}
}
