// Package rendertest provides a minimal terminal model for asserting what a
// sequence of writes leaves on screen.
package rendertest

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Screen interprets CR, LF, CSI n F (cursor previous line) and printable
// runes. Other CSI sequences are consumed and ignored. There is no auto-wrap
// and no scrolling: rows grow downward as needed.
type Screen struct {
	cells [][]rune
	row   int
	col   int
	esc   []byte
	width int
}

func NewScreen(width int) *Screen {
	return &Screen{width: width}
}

// Columns is the column count handed to code under test.
func (s *Screen) Columns() int {
	return s.width
}

func (s *Screen) Write(p []byte) (int, error) {
	for i := 0; i < len(p); {
		c, n := utf8.DecodeRune(p[i:])
		i += n
		s.put(c)
	}
	return len(p), nil
}

func (s *Screen) put(c rune) {
	if s.esc != nil {
		s.esc = append(s.esc, byte(c))
		if len(s.esc) == 1 {
			if c != '[' {
				s.esc = nil
			}
			return
		}
		if c >= 0x40 && c <= 0x7e {
			s.csi(c, string(s.esc[1:len(s.esc)-1]))
			s.esc = nil
		}
		return
	}
	switch c {
	case 0x1b:
		s.esc = []byte{}
	case '\r':
		s.col = 0
	case '\n':
		s.row++
	default:
		if c < 0x20 {
			return
		}
		s.set(c)
		s.col++
	}
}

func (s *Screen) csi(final rune, param string) {
	n := 1
	if param != "" {
		if v, err := strconv.Atoi(param); err == nil {
			n = v
		}
	}
	if final == 'F' {
		s.row = max(s.row-n, 0)
		s.col = 0
	}
}

func (s *Screen) set(c rune) {
	for len(s.cells) <= s.row {
		s.cells = append(s.cells, nil)
	}
	line := s.cells[s.row]
	for len(line) <= s.col {
		line = append(line, ' ')
	}
	line[s.col] = c
	s.cells[s.row] = line
}

// Lines returns every touched row with trailing spaces removed, and with
// trailing empty rows dropped.
func (s *Screen) Lines() []string {
	out := make([]string, len(s.cells))
	for i, l := range s.cells {
		out[i] = strings.TrimRight(string(l), " ")
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// Cursor returns the current row and column.
func (s *Screen) Cursor() (int, int) {
	return s.row, s.col
}
