package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dlnilsson/git-mess/pkg/config"
)

var (
	ErrCancelled   = errors.New("selection cancelled")
	ErrNoSelection = errors.New("please choose a type")
)

// Choice is one menu line. Value is what a pick returns.
type Choice struct {
	Label string
	Value string
}

type menuModel struct {
	title     string
	choices   []Choice
	cursor    int
	multi     bool
	picked    map[int]bool
	selected  []string
	done      bool
	cancelled bool
}

func newMenu(title string, choices []Choice, multi bool) menuModel {
	return menuModel{title: title, choices: choices, multi: multi, picked: map[int]bool{}}
}

// Prompter runs the interactive menus. Nil In/Out use the process stdin and
// stdout.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

func (p Prompter) run(m menuModel) (menuModel, error) {
	if len(m.choices) == 0 {
		return m, errors.New("no choices available for selection")
	}
	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, err
	}
	m = final.(menuModel)
	if m.cancelled {
		return m, ErrCancelled
	}
	return m, nil
}

// Category asks for the commit type(s) and returns the formatted label used
// as the title prompt.
func (p Prompter) Category(cfg config.Config) (string, error) {
	menu := cfg.Menu()
	choices := make([]Choice, len(menu))
	for i, c := range menu {
		choices[i] = Choice{Label: c.Code + ": " + c.Description, Value: c.Code}
	}
	title := "Select the type of change you are committing (enter to select)"
	if cfg.MultipleTypes {
		title = "Select the type(s) of change you are committing (space to toggle, enter to confirm)"
	}
	m, err := p.run(newMenu(title, choices, cfg.MultipleTypes))
	if err != nil {
		return "", err
	}
	if len(m.selected) == 0 {
		return "", ErrNoSelection
	}
	return FormatTypes(m.selected, cfg.TypesStyle), nil
}

// Confirm shows the message inside a banner of the given width and asks
// whether to commit. The default answer is no.
func (p Prompter) Confirm(message string, width int) (bool, error) {
	out := p.Out
	if out == nil {
		out = stdout
	}
	if _, err := io.WriteString(out, Preview(message, width)); err != nil {
		return false, err
	}
	m := newMenu("Do you want to commit with the above message?", []Choice{
		{Label: "yes", Value: "yes"},
		{Label: "no", Value: "no"},
	}, false)
	m.cursor = 1
	m, err := p.run(m)
	if err != nil {
		return false, err
	}
	return len(m.selected) == 1 && m.selected[0] == "yes", nil
}

// FormatTypes joins the chosen codes as "a,b" or "[a][b]".
func FormatTypes(codes []string, style config.TypesStyle) string {
	if style == config.StyleBrackets {
		var b strings.Builder
		for _, c := range codes {
			b.WriteString("[" + c + "]")
		}
		return b.String()
	}
	return strings.Join(codes, ",")
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case "enter":
			m.selected = m.collect()
			m.done = true
			return m, tea.Quit
		case " ":
			if m.multi {
				m.picked[m.cursor] = !m.picked[m.cursor]
			}
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

func (m menuModel) collect() []string {
	if !m.multi {
		return []string{m.choices[m.cursor].Value}
	}
	var out []string
	for i, c := range m.choices {
		if m.picked[i] {
			out = append(out, c.Value)
		}
	}
	return out
}

func (m menuModel) View() string {
	if m.done {
		if m.cancelled || len(m.selected) == 0 {
			return ""
		}
		return fmt.Sprintf("%s %s\n", titleStyle.Render("?"), strings.Join(m.selected, ", "))
	}
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("?") + " " + m.title + "\n\n")
	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = cursorStyle.Render(">")
		}
		mark := ""
		if m.multi {
			mark = "[ ] "
			if m.picked[i] {
				mark = "[x] "
			}
		}
		b.WriteString(fmt.Sprintf(" %s %s%s\n", cursor, mark, choice.Label))
	}
	b.WriteString("\n" + hintStyle.Render("q/esc to cancel") + "\n")
	return b.String()
}
