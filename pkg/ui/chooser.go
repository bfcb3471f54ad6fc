package ui

import (
	"errors"
	"fmt"

	"github.com/dlnilsson/git-mess/pkg/spell"
)

// maxSuggestions caps the replacement list offered per word.
const maxSuggestions = 8

// SpellChooser asks the user how to fix each misspelled word.
type SpellChooser struct {
	Prompter Prompter
}

func (c SpellChooser) Choose(m spell.Miss, text string) (string, error) {
	choices := []Choice{{Label: fmt.Sprintf("keep %q", m.Word), Value: m.Word}}
	for i, s := range m.Suggestions {
		if i == maxSuggestions {
			break
		}
		choices = append(choices, Choice{Label: s, Value: s})
	}
	title := fmt.Sprintf("Possible misspelling %q in: %s", m.Word, text)
	picked, err := c.Prompter.run(newMenu(title, choices, false))
	if errors.Is(err, ErrCancelled) {
		return "", spell.ErrCancelled
	}
	if err != nil {
		return "", err
	}
	return picked.selected[0], nil
}
