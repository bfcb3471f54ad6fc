// Package rawterm reads single keystrokes from the controlling terminal.
//
// Raw mode is held only for the duration of one read: every ReadKey call
// captures the current line discipline, switches to raw mode, reads one
// input unit and restores the captured state before returning, so anything
// printed between reads runs with the terminal in its normal cooked mode.
package rawterm

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/term"
)

// DefaultColumns is reported when the terminal size cannot be queried.
const DefaultColumns = 80

var (
	ErrNotTerminal = errors.New("stdin is not a terminal")
	ErrBusy        = errors.New("raw terminal session already active")
)

type Terminal struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int

	mu     sync.Mutex
	saved  *term.State
	active bool
}

// Open binds to stdin/stdout. It fails when stdin is not an interactive
// terminal, before any keystroke is read.
func Open() (*Terminal, error) {
	return open(os.Stdin, os.Stdout)
}

func open(in, out *os.File) (*Terminal, error) {
	inFd := int(in.Fd())
	if !term.IsTerminal(inFd) {
		return nil, ErrNotTerminal
	}
	return &Terminal{
		in:    in,
		out:   out,
		inFd:  inFd,
		outFd: int(out.Fd()),
	}, nil
}

// ReadKey blocks until one code point has been typed and returns it without
// echo. The prior terminal mode is restored on every return path.
func (t *Terminal) ReadKey() (rune, error) {
	if err := t.acquire(); err != nil {
		return 0, err
	}
	defer t.release()
	return ReadRune(t.in)
}

// Width returns the current column count of the output terminal.
func (t *Terminal) Width() int {
	w, _, err := term.GetSize(t.outFd)
	if err != nil || w <= 0 {
		return DefaultColumns
	}
	return w
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// Reset restores the mode captured by an in-flight ReadKey. It is safe to
// call from a signal handler goroutine while ReadKey is blocked.
func (t *Terminal) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved != nil {
		_ = term.Restore(t.inFd, t.saved)
	}
}

func (t *Terminal) acquire() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		return ErrBusy
	}
	old, err := term.MakeRaw(t.inFd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.saved = old
	t.active = true
	return nil
}

func (t *Terminal) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved != nil {
		_ = term.Restore(t.inFd, t.saved)
	}
	t.saved = nil
	t.active = false
}

// ReadRune reads one byte, plus the continuation bytes when that byte starts
// a multi-byte UTF-8 sequence. Malformed input decodes to utf8.RuneError.
func ReadRune(r io.Reader) (rune, error) {
	var buf [utf8.UTFMax]byte
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return 0, err
	}
	if buf[0] < utf8.RuneSelf {
		return rune(buf[0]), nil
	}
	n := sequenceLength(buf[0])
	if n < 2 {
		return utf8.RuneError, nil
	}
	if _, err := io.ReadFull(r, buf[1:n]); err != nil {
		return 0, err
	}
	c, _ := utf8.DecodeRune(buf[:n])
	return c, nil
}

func sequenceLength(lead byte) int {
	switch {
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
