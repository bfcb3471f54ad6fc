// Package workflow drives one composer run: type menu, the four field
// prompts, the optional spellcheck pass, confirmation and the commit.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dlnilsson/git-mess/pkg/commit"
	"github.com/dlnilsson/git-mess/pkg/config"
	"github.com/dlnilsson/git-mess/pkg/editor"
	"github.com/dlnilsson/git-mess/pkg/spell"
	"github.com/dlnilsson/git-mess/pkg/ui"
)

// ErrAborted means the user cancelled; nothing was committed.
var ErrAborted = errors.New("aborted by user")

const (
	NothingStaged = "There is nothing staged to commit"
	Declined      = "Commit cancelled."
)

// Field labels of the free-text prompts.
const (
	BodyLabel     = "Longer description"
	IssueLabel    = "Issue code"
	BreakingLabel = "Breaking change"
)

type Editor interface {
	Edit(ctx context.Context, f editor.Field) (editor.Result, error)
}

type Repository interface {
	HasStaged(ctx context.Context) (bool, error)
	Commit(ctx context.Context, message string) error
}

type Prompter interface {
	Category(cfg config.Config) (string, error)
	Confirm(message string, width int) (bool, error)
}

type Speller interface {
	Correct(ctx context.Context, text string) (string, error)
}

// Workflow holds the collaborators of a run. Speller may be nil, in which
// case no spellcheck pass happens even if the config asks for one.
type Workflow struct {
	Config   config.Config
	Editor   Editor
	Repo     Repository
	Prompter Prompter
	Speller  Speller
	Out      io.Writer
	Log      *zap.Logger
}

func (w *Workflow) Run(ctx context.Context) error {
	log := w.log()

	staged, err := w.Repo.HasStaged(ctx)
	if err != nil {
		return err
	}
	if !staged {
		w.println(NothingStaged)
		return nil
	}

	label, err := w.Prompter.Category(w.Config)
	if errors.Is(err, ui.ErrCancelled) || errors.Is(err, ui.ErrNoSelection) {
		log.Debug("category menu left", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	if err != nil {
		return fmt.Errorf("type menu: %w", err)
	}

	titleField := editor.Field{Label: label, MaxLength: w.Config.MaxLength, Fill: w.Config.BlankChar}
	title, err := w.edit(ctx, titleField)
	if err != nil {
		return err
	}
	msg := commit.Message{Title: commit.Title{Prefix: title.Prefix, Content: title.Content}}

	for _, f := range []struct {
		label string
		dst   *string
	}{
		{BodyLabel, &msg.Body},
		{IssueLabel, &msg.Issue},
		{BreakingLabel, &msg.Breaking},
	} {
		res, err := w.edit(ctx, editor.Field{Label: f.label, MaxLength: editor.Unbounded})
		if err != nil {
			return err
		}
		*f.dst = res.Content
	}

	if w.Config.Spellcheck && w.Speller != nil {
		if msg, err = w.spellcheck(ctx, titleField, msg); err != nil {
			return err
		}
	}

	text := msg.Build(w.Config.WrapLength)
	log.Debug("message built", zap.Int("bytes", len(text)))

	if w.Config.ConfirmCommit {
		ok, err := w.Prompter.Confirm(text, w.Config.HeaderWidth())
		if errors.Is(err, ui.ErrCancelled) {
			return fmt.Errorf("%w: %w", ErrAborted, err)
		}
		if err != nil {
			return fmt.Errorf("confirmation: %w", err)
		}
		if !ok {
			w.println(Declined)
			return nil
		}
	}
	return w.Repo.Commit(ctx, text)
}

func (w *Workflow) edit(ctx context.Context, f editor.Field) (editor.Result, error) {
	res, err := w.Editor.Edit(ctx, f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", f.Label, err)
	}
	if res.Outcome == editor.Cancelled {
		return res, fmt.Errorf("%w: interrupted at %q", ErrAborted, f.Label)
	}
	return res, nil
}

// spellcheck corrects the title content and the body. A corrected title
// that no longer fits is handed back to the editor as a seed.
func (w *Workflow) spellcheck(ctx context.Context, titleField editor.Field, msg commit.Message) (commit.Message, error) {
	title := w.correct(ctx, msg.Title.Content)
	if title != msg.Title.Content {
		line := msg.Title.Prefix + title
		if titleField.MaxLength != editor.Unbounded && utf8.RuneCountInString(line) > titleField.MaxLength {
			titleField.Seed = title
			res, err := w.edit(ctx, titleField)
			if err != nil {
				return msg, err
			}
			title = res.Content
		}
		msg.Title.Content = title
	}
	msg.Body = w.correct(ctx, msg.Body)
	return msg, nil
}

// correct never fails the run: checker errors keep the text as typed.
func (w *Workflow) correct(ctx context.Context, text string) string {
	if text == "" {
		return text
	}
	out, err := w.Speller.Correct(ctx, text)
	switch {
	case errors.Is(err, spell.ErrCancelled):
		return text
	case err != nil:
		w.log().Warn("spellcheck failed", zap.Error(err))
		return text
	}
	return out
}

func (w *Workflow) println(s string) {
	if w.Out != nil {
		fmt.Fprintln(w.Out, s)
	}
}

func (w *Workflow) log() *zap.Logger {
	if w.Log == nil {
		return zap.NewNop()
	}
	return w.Log
}
