package ui

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type SignalForwarder interface {
	ForwardSignal(sig os.Signal)
}

type spinnerDoneMsg struct{}

type spinnerModel struct {
	spinner   spinner.Model
	message   string
	done      bool
	start     time.Time
	forwarder SignalForwarder
}

var spinnerStyles = []spinner.Spinner{
	spinner.Line,
	spinner.Dot,
	spinner.MiniDot,
	spinner.Jump,
	spinner.Pulse,
	spinner.Points,
	spinner.Globe,
	spinner.Moon,
	spinner.Monkey,
}

var (
	terminalOutput     io.Writer
	terminalOutputOnce sync.Once
)

func getTerminalOutput() io.Writer {
	terminalOutputOnce.Do(func() {
		if runtime.GOOS == "windows" {
			terminalOutput = os.Stderr
			return
		}
		f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
		if err != nil {
			terminalOutput = io.Discard
			return
		}
		terminalOutput = f
	})
	return terminalOutput
}

// StartSpinner shows message with a spinner on the terminal until the
// returned function is called. The stop function is safe to call more than
// once and from several goroutines.
func StartSpinner(message string, forwarder SignalForwarder) func() {
	return startSpinner(message, forwarder, getTerminalOutput())
}

func startSpinner(message string, forwarder SignalForwarder, out io.Writer) func() {
	ForceANSI()
	p := tea.NewProgram(newSpinnerModel(message, forwarder), tea.WithOutput(out), tea.WithInput(nil))
	done := make(chan struct{})
	go func() {
		_, _ = p.Run()
		close(done)
	}()
	var stopOnce sync.Once
	return func() {
		stopOnce.Do(func() {
			p.Send(spinnerDoneMsg{})
			<-done
		})
	}
}

func newSpinnerModel(message string, forwarder SignalForwarder) spinnerModel {
	s := spinner.New()
	s.Spinner = randomSpinnerStyle()
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return spinnerModel{spinner: s, message: message, start: time.Now(), forwarder: forwarder}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && m.forwarder != nil {
			m.forwarder.ForwardSignal(os.Interrupt)
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return "\r\033[2K"
	}
	elapsed := time.Since(m.start).Seconds()
	return fmt.Sprintf("  %s %s (%.1fs)\n", m.spinner.View(), m.message, elapsed)
}

func randomSpinnerStyle() spinner.Spinner {
	if len(spinnerStyles) == 0 {
		return spinner.Dot
	}
	seed := time.Now().UnixNano()
	return spinnerStyles[int(seed%int64(len(spinnerStyles)))]
}
