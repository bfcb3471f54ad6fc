package commit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTitleOnly(t *testing.T) {
	t.Parallel()

	msg := Message{Title: Title{Prefix: "fix: ", Content: "help"}}
	require.Equal(t, "fix: help", msg.Build(72))
}

func TestBuildKeepsTitleAsTyped(t *testing.T) {
	t.Parallel()

	msg := Message{Title: Title{Prefix: "fix: ", Content: " two  spaces "}, Body: "body"}
	require.Equal(t, "fix:  two  spaces \n\nbody", msg.Build(72))
}

func TestBuildAllSections(t *testing.T) {
	t.Parallel()

	msg := Message{
		Title:    Title{Prefix: "feat,docs: ", Content: "add wrapped preview"},
		Body:     "The preview reflows to the terminal width. Cursor keys move within the field.",
		Issue:    "GM-12",
		Breaking: "the config file moved",
	}
	want := strings.Join([]string{
		"feat,docs: add wrapped preview",
		"",
		"The preview reflows to the terminal width.",
		"Cursor keys move within the field.",
		"",
		"Issue: GM-12",
		"",
		"BREAKING CHANGE: the config file moved",
	}, "\n")
	require.Equal(t, want, msg.Build(50))
}

func TestBuildSkipsBlankSections(t *testing.T) {
	t.Parallel()

	msg := Message{
		Title:    Title{Prefix: "[fix][test]: ", Content: "flaky clock"},
		Body:     "   ",
		Breaking: "none really",
	}
	require.Equal(t, "[fix][test]: flaky clock\n\nBREAKING CHANGE: none really", msg.Build(72))
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short", "one line", 20, "one line"},
		{"word wrap", "alpha beta gamma delta", 11, "alpha beta\ngamma delta"},
		{"sentence break", "Done. Next item here", 15, "Done.\nNext item here"},
		{"sentence break then overflow", "Hi. aaaaaaaaaaaaaaaa bbbbb", 20, "Hi.\naaaaaaaaaaaaaaaa\nbbbbb"},
		{"paragraphs", "first para\n\n\n\nsecond para", 40, "first para\n\nsecond para"},
		{"joined lines", "a b\nc d", 40, "a b c d"},
		{"long word", "supercalifragilistic word", 5, "supercalifragilistic\nword"},
		{"no width", "  keep as is ", 0, "keep as is"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, WrapText(tt.in, tt.width))
		})
	}
}

func TestWrapTextRespectsWidth(t *testing.T) {
	t.Parallel()

	text := "Fix it. The renderer now erases stale rows before painting. " +
		"Ok. Cursor keys move within the field and never past the prompt. A. B. C."
	for width := 10; width <= 40; width++ {
		for _, line := range strings.Split(WrapText(text, width), "\n") {
			require.LessOrEqual(t, len(line), width, "width %d: %q", width, line)
		}
	}
}
