// Package editor implements the bounded single-line field editor: it reads
// raw keystrokes, keeps an editable buffer with a cursor, and repaints a
// width-wrapped preview of prompt + content after every change.
package editor

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dlnilsson/git-mess/pkg/render"
)

// Terminal is the keystroke source and paint target of an Editor.
type Terminal interface {
	io.Writer
	ReadKey() (rune, error)
	Width() int
}

type Outcome int

const (
	Completed Outcome = iota
	Cancelled
)

// Result of one field prompt. Prefix and Content are only meaningful when
// Outcome is Completed.
type Result struct {
	Outcome Outcome
	Prefix  string
	Content string
}

// Text is the full line without padding.
func (r Result) Text() string {
	return r.Prefix + r.Content
}

type Editor struct {
	term     Terminal
	renderer *render.Renderer
	log      *zap.Logger
}

func New(term Terminal, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Editor{
		term:     term,
		renderer: render.New(term, term.Width),
		log:      log,
	}
}

// Edit runs one prompt until Enter or Ctrl-C. I/O failures are returned as
// errors; a Ctrl-C is a Cancelled result with a nil error.
func (e *Editor) Edit(ctx context.Context, f Field) (Result, error) {
	s := NewSession(f)
	log := e.log.With(zap.String("field", f.Label), zap.Int("max", f.MaxLength))
	log.Debug("edit start", zap.Int("seed", utf8.RuneCountInString(s.Content())))

	line := s.Line()
	painted := utf8.RuneCountInString(line)
	frame, err := e.renderer.Render(line, s.Cursor())
	if err != nil {
		return Result{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		r, err := e.term.ReadKey()
		if err != nil {
			return Result{}, fmt.Errorf("read key: %w", err)
		}
		class, changed := s.Feed(r)
		switch class {
		case Enter:
			if err := e.leave(frame); err != nil {
				return Result{}, err
			}
			log.Debug("edit done", zap.Int("length", utf8.RuneCountInString(s.Content())))
			return Result{Outcome: Completed, Prefix: s.Prompt(), Content: s.Content()}, nil
		case Interrupt:
			if err := e.leave(frame); err != nil {
				return Result{}, err
			}
			log.Debug("edit cancelled")
			return Result{Outcome: Cancelled}, nil
		}
		if !changed {
			continue
		}

		line = s.Line()
		painted = max(painted, utf8.RuneCountInString(line))
		if err := e.renderer.Erase(frame, painted); err != nil {
			return Result{}, err
		}
		if frame, err = e.renderer.Render(line, s.Cursor()); err != nil {
			return Result{}, err
		}
	}
}

// leave moves below the last painted row and adds one blank separator line
// so the next prompt never overlaps this one.
func (e *Editor) leave(f render.Frame) error {
	_, err := io.WriteString(e.term, strings.Repeat("\r\n", f.Span()-f.CursorRow+1))
	return err
}
