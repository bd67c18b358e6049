package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// pager is the command loop that consumes normalized input characters.
// It draws a screenful of the file, prompts, and dispatches one
// keystroke at a time.
type pager struct {
	name  string
	lines []string
	top   int
	rows  int
	cols  int
	wheel int
	mouse bool
	out   *bufio.Writer
	intr  *atomic.Bool
}

func newPager(name string, lines []string, out *bufio.Writer, intr *atomic.Bool) *pager {
	return &pager{
		name:  name,
		lines: lines,
		rows:  24,
		cols:  80,
		wheel: 1,
		out:   out,
		intr:  intr,
	}
}

// loadLines reads the file to page, or standard input when no file is
// named (input commands still come from the terminal device, not stdin).
func loadLines(path string) (string, []string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, err
		}
		return "(stdin)", splitLines(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	return path, splitLines(data), nil
}

func splitLines(data []byte) []string {
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (p *pager) pageSize() int {
	n := p.rows - 1
	if n < 1 {
		n = 1
	}
	return n
}

func (p *pager) maxTop() int {
	m := len(p.lines) - p.pageSize()
	if m < 0 {
		m = 0
	}
	return m
}

func (p *pager) scroll(n int) {
	p.top += n
	if p.top > p.maxTop() {
		p.top = p.maxTop()
	}
	if p.top < 0 {
		p.top = 0
	}
}

func (p *pager) resize() {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		p.cols, p.rows = w, h
	}
}

func (p *pager) draw() {
	p.resize()
	p.out.WriteString("\x1b[2J\x1b[H")
	for i := 0; i < p.pageSize(); i++ {
		n := p.top + i
		if n < len(p.lines) {
			p.out.WriteString(clipLine(p.lines[n], p.cols))
		} else {
			p.out.WriteString("~")
		}
		p.out.WriteString("\r\n")
	}
	if p.top >= p.maxTop() {
		p.out.WriteString("(END) ")
	} else {
		p.out.WriteString(":")
	}
}

func clipLine(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= cols {
		return s
	}
	return string(r[:cols])
}

// status overwrites the prompt line without repainting the screen.
func (p *pager) status(msg string) {
	p.out.WriteString("\r\x1b[K")
	p.out.WriteString(clipLine(msg, p.cols))
}

func (p *pager) position() string {
	last := p.top + p.pageSize()
	if last > len(p.lines) {
		last = len(p.lines)
	}
	pct := 100
	if len(p.lines) > 0 {
		pct = last * 100 / len(p.lines)
	}
	return fmt.Sprintf("%s lines %d-%d/%d %d%%", p.name, p.top+1, last, len(p.lines), pct)
}

// dumpScreen writes the visible screen to stderr for the playback
// harness to capture.
func (p *pager) dumpScreen() {
	fmt.Fprintf(os.Stderr, "=== dump top=%d rows=%d\n", p.top, p.pageSize())
	for i := 0; i < p.pageSize(); i++ {
		n := p.top + i
		if n < len(p.lines) {
			fmt.Fprintln(os.Stderr, p.lines[n])
		}
	}
	fmt.Fprintln(os.Stderr, "=== end")
}

func (p *pager) enableMouse() {
	p.out.WriteString("\x1b[?1000h\x1b[?1006h")
	p.mouse = true
}

func (p *pager) disableMouse() {
	if p.mouse {
		p.out.WriteString("\x1b[?1006l\x1b[?1000l")
		p.mouse = false
	}
}

// run is the command loop. It returns the process exit code.
func (p *pager) run(rd *inputReader, con console, ts *termState) int {
	for {
		p.draw()
		redraw := false
		for !redraw {
			c := rd.NextChar()
			switch c {
			case charEOF, 'q', 'Q':
				return exitOK
			case charIntr, 0x03:
				// Recoverable: drop the pending interrupt and
				// reprompt. A literal 0x03 reaches here from
				// sources that do not map ctrl-C themselves.
				p.intr.Store(false)
				p.status("(interrupt)")
			case 'j', 'e', '\r', '\n':
				p.scroll(1)
				redraw = true
			case 'k', 'y':
				p.scroll(-1)
				redraw = true
			case ' ', 'f':
				p.scroll(p.pageSize())
				redraw = true
			case 'b':
				p.scroll(-p.pageSize())
				redraw = true
			case 'd':
				p.scroll(p.pageSize() / 2)
				redraw = true
			case 'u':
				p.scroll(-p.pageSize() / 2)
				redraw = true
			case 'g', '<':
				p.top = 0
				redraw = true
			case 'G', '>':
				p.top = p.maxTop()
				redraw = true
			case 0x0C: // ctrl-L
				redraw = true
			case '=':
				p.status(p.position())
			case '!':
				p.shellEscape(rd, con, ts)
				redraw = true
			case 0x1B:
				if cmd := p.decodeEscape(rd); cmd != 0 {
					switch cmd {
					case 'k':
						p.scroll(-1)
					case 'j':
						p.scroll(1)
					case 'b':
						p.scroll(-p.pageSize())
					case ' ':
						p.scroll(p.pageSize())
					case 'y':
						p.scroll(-p.wheel)
					case 'e':
						p.scroll(p.wheel)
					}
					redraw = true
				}
			}
		}
	}
}

// decodeEscape consumes the rest of a CSI sequence and maps it to a
// plain command character, or 0 when the sequence means nothing here.
// Wheel events scroll by the platform wheel amount.
func (p *pager) decodeEscape(rd *inputReader) int {
	c := rd.NextChar()
	if c != '[' {
		return 0
	}
	c = rd.NextChar()
	switch c {
	case 'A':
		return 'k'
	case 'B':
		return 'j'
	case '5', '6':
		pgdn := c == '6'
		if rd.NextChar() != '~' {
			return 0
		}
		if pgdn {
			return ' '
		}
		return 'b'
	case '<':
		return p.decodeMouse(rd)
	}
	return 0
}

// decodeMouse parses an SGR mouse report (button;col;row then M or m).
// Only wheel buttons matter; presses and releases are swallowed.
func (p *pager) decodeMouse(rd *inputReader) int {
	button := 0
	field := 0
	for {
		c := rd.NextChar()
		switch {
		case c >= '0' && c <= '9':
			if field == 0 {
				button = button*10 + (c - '0')
			}
		case c == ';':
			field++
		case c == 'M':
			switch button {
			case 64:
				return 'y'
			case 65:
				return 'e'
			}
			return 0
		case c == 'm':
			return 0
		default:
			return 0
		}
	}
}

// shellEscape reads a command line through the input layer, runs it with
// the console shared, and puts both the terminal and the console mode
// back the way the pager needs them.
func (p *pager) shellEscape(rd *inputReader, con console, ts *termState) {
	p.status("!")
	var line []byte
	for {
		c := rd.NextChar()
		if c == charEOF || c == charIntr || c == 0x1B {
			return
		}
		if c == '\r' || c == '\n' {
			break
		}
		if c == 0x7F || c == 0x08 {
			if len(line) > 0 {
				line = line[:len(line)-1]
				p.out.WriteString("\b \b")
			}
			continue
		}
		line = append(line, byte(c))
		p.out.WriteByte(byte(c))
	}
	if len(line) == 0 {
		return
	}
	p.disableMouse()
	p.out.WriteString("\r\n")
	p.out.Flush()
	if ts != nil {
		_ = ts.restore()
	}
	if err := runShell(string(line)); err != nil {
		fmt.Fprintln(os.Stderr, "peruse: shell:", err)
	}
	if ts != nil {
		ts.reapply()
	}
	con.ReapplyMode()
	if con.Mode() == modeMouse {
		p.enableMouse()
	}
	p.out.WriteString("!done (press RETURN)")
	p.out.Flush()
	rd.NextChar()
}
