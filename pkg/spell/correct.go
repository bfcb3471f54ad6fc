package spell

import (
	"context"
	"errors"
)

// ErrCancelled is returned by a Chooser when the user aborts the pass.
var ErrCancelled = errors.New("spellcheck cancelled")

// Chooser asks which replacement to use for a miss. Returning m.Word keeps
// the original spelling.
type Chooser interface {
	Choose(m Miss, text string) (string, error)
}

type checker interface {
	Check(ctx context.Context, text string) ([]Miss, error)
}

// Corrector runs one interactive correction pass over a field.
type Corrector struct {
	Checker checker
	Chooser Chooser
}

func NewCorrector(c *Checker, chooser Chooser) *Corrector {
	return &Corrector{Checker: c, Chooser: chooser}
}

// Correct returns text with the chosen replacements applied.
func (c *Corrector) Correct(ctx context.Context, text string) (string, error) {
	misses, err := c.Checker.Check(ctx, text)
	if err != nil || len(misses) == 0 {
		return text, err
	}
	picks := make([]string, len(misses))
	for i, m := range misses {
		if picks[i], err = c.Chooser.Choose(m, text); err != nil {
			return text, err
		}
	}
	for i := len(misses) - 1; i >= 0; i-- {
		m := misses[i]
		if picks[i] == m.Word {
			continue
		}
		text = text[:m.Offset] + picks[i] + text[m.Offset+len(m.Word):]
	}
	return text, nil
}
