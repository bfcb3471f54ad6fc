package workflow

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dlnilsson/git-mess/pkg/config"
	"github.com/dlnilsson/git-mess/pkg/editor"
	"github.com/dlnilsson/git-mess/pkg/spell"
	"github.com/dlnilsson/git-mess/pkg/ui"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeEditor answers each prompt from a script keyed by label and records
// the fields it was asked for.
type fakeEditor struct {
	answers map[string][]editor.Result
	asked   []editor.Field
	err     error
}

func (f *fakeEditor) Edit(_ context.Context, field editor.Field) (editor.Result, error) {
	f.asked = append(f.asked, field)
	if f.err != nil {
		return editor.Result{}, f.err
	}
	queue := f.answers[field.Label]
	if len(queue) == 0 {
		return editor.Result{Outcome: editor.Completed, Prefix: field.Prompt()}, nil
	}
	f.answers[field.Label] = queue[1:]
	return queue[0], nil
}

type fakeRepo struct {
	staged   bool
	stageErr error
	commits  []string
}

func (r *fakeRepo) HasStaged(context.Context) (bool, error) { return r.staged, r.stageErr }

func (r *fakeRepo) Commit(_ context.Context, message string) error {
	r.commits = append(r.commits, message)
	return nil
}

type fakePrompter struct {
	category    string
	categoryErr error
	confirm     bool
	confirmErr  error
	shown       []string
	widths      []int
}

func (p *fakePrompter) Category(config.Config) (string, error) { return p.category, p.categoryErr }

func (p *fakePrompter) Confirm(message string, width int) (bool, error) {
	p.shown = append(p.shown, message)
	p.widths = append(p.widths, width)
	return p.confirm, p.confirmErr
}

type fakeSpeller struct {
	fixes map[string]string
	err   error
}

func (s fakeSpeller) Correct(_ context.Context, text string) (string, error) {
	if s.err != nil {
		return text, s.err
	}
	if out, ok := s.fixes[text]; ok {
		return out, nil
	}
	return text, nil
}

func done(prefix, content string) editor.Result {
	return editor.Result{Outcome: editor.Completed, Prefix: prefix, Content: content}
}

type harness struct {
	wf       *Workflow
	editor   *fakeEditor
	repo     *fakeRepo
	prompter *fakePrompter
	out      *bytes.Buffer
}

func newHarness(cfg config.Config) *harness {
	h := &harness{
		editor:   &fakeEditor{answers: map[string][]editor.Result{}},
		repo:     &fakeRepo{staged: true},
		prompter: &fakePrompter{category: "fix", confirm: true},
		out:      &bytes.Buffer{},
	}
	h.wf = &Workflow{
		Config:   cfg,
		Editor:   h.editor,
		Repo:     h.repo,
		Prompter: h.prompter,
		Out:      h.out,
	}
	return h
}

func TestRunCommitsAssembledMessage(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Spellcheck = false
	h := newHarness(cfg)
	h.editor.answers["fix"] = []editor.Result{done("fix: ", "help")}
	h.editor.answers[BodyLabel] = []editor.Result{done("Longer description: ", "Explains the change.")}
	h.editor.answers[IssueLabel] = []editor.Result{done("Issue code: ", "GM-7")}

	require.NoError(t, h.wf.Run(context.Background()))

	want := "fix: help\n\nExplains the change.\n\nIssue: GM-7"
	require.Equal(t, []string{want}, h.repo.commits)
	require.Equal(t, []string{want}, h.prompter.shown)
	require.Equal(t, []int{80}, h.prompter.widths)

	labels := make([]string, len(h.editor.asked))
	for i, f := range h.editor.asked {
		labels[i] = f.Label
	}
	if diff := cmp.Diff([]string{"fix", BodyLabel, IssueLabel, BreakingLabel}, labels); diff != "" {
		t.Fatalf("prompt order (-want +got):\n%s", diff)
	}
	require.Equal(t, editor.Field{Label: "fix", MaxLength: 80, Fill: '_'}, h.editor.asked[0])
	for _, f := range h.editor.asked[1:] {
		require.Equal(t, editor.Unbounded, f.MaxLength)
		require.Zero(t, f.Fill)
	}
}

func TestRunNothingStaged(t *testing.T) {
	t.Parallel()

	h := newHarness(config.Default())
	h.repo.staged = false

	require.NoError(t, h.wf.Run(context.Background()))
	require.Equal(t, NothingStaged+"\n", h.out.String())
	require.Empty(t, h.editor.asked)
	require.Empty(t, h.repo.commits)
}

func TestRunStagedCheckError(t *testing.T) {
	t.Parallel()

	h := newHarness(config.Default())
	h.repo.stageErr = errors.New("not a git directory")

	require.Error(t, h.wf.Run(context.Background()))
	require.Empty(t, h.repo.commits)
}

func TestRunInterruptedFieldAborts(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"fix", BodyLabel, IssueLabel, BreakingLabel} {
		t.Run(label, func(t *testing.T) {
			t.Parallel()

			h := newHarness(config.Default())
			h.editor.answers[label] = []editor.Result{{Outcome: editor.Cancelled}}

			err := h.wf.Run(context.Background())
			require.ErrorIs(t, err, ErrAborted)
			require.Empty(t, h.repo.commits)
			require.Empty(t, h.prompter.shown)
		})
	}
}

func TestRunMenuCancelAborts(t *testing.T) {
	t.Parallel()

	for _, menuErr := range []error{ui.ErrCancelled, ui.ErrNoSelection} {
		h := newHarness(config.Default())
		h.prompter.categoryErr = menuErr

		err := h.wf.Run(context.Background())
		require.ErrorIs(t, err, ErrAborted)
		require.ErrorIs(t, err, menuErr)
		require.Empty(t, h.editor.asked)
	}
}

func TestRunEditorFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(config.Default())
	h.editor.err = errors.New("read /dev/tty: input/output error")

	err := h.wf.Run(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAborted)
	require.Empty(t, h.repo.commits)
}

func TestRunDeclinedConfirmation(t *testing.T) {
	t.Parallel()

	h := newHarness(config.Default())
	h.prompter.confirm = false

	require.NoError(t, h.wf.Run(context.Background()))
	require.Len(t, h.prompter.shown, 1)
	require.Empty(t, h.repo.commits)
	require.Equal(t, Declined+"\n", h.out.String())
}

func TestRunConfirmationCancelAborts(t *testing.T) {
	t.Parallel()

	h := newHarness(config.Default())
	h.prompter.confirmErr = ui.ErrCancelled

	require.ErrorIs(t, h.wf.Run(context.Background()), ErrAborted)
	require.Empty(t, h.repo.commits)
}

func TestRunWithoutConfirmation(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.ConfirmCommit = false
	h := newHarness(cfg)
	h.editor.answers["fix"] = []editor.Result{done("fix: ", "quiet")}

	require.NoError(t, h.wf.Run(context.Background()))
	require.Empty(t, h.prompter.shown)
	require.Equal(t, []string{"fix: quiet"}, h.repo.commits)
}

func TestRunWrapsBodyAndAddsBreakingFooter(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.WrapLength = 20
	cfg.MaxLength = 30
	h := newHarness(cfg)
	h.editor.answers["fix"] = []editor.Result{done("fix: ", "narrow")}
	h.editor.answers[BodyLabel] = []editor.Result{done("", "one two three four five six")}
	h.editor.answers[BreakingLabel] = []editor.Result{done("", "drops v1 API")}

	require.NoError(t, h.wf.Run(context.Background()))
	require.Len(t, h.repo.commits, 1)
	msg := h.repo.commits[0]
	for _, line := range strings.Split(msg, "\n") {
		require.LessOrEqual(t, len(line), 30, line)
	}
	require.True(t, strings.HasSuffix(msg, "\n\nBREAKING CHANGE: drops v1 API"), msg)
	require.Equal(t, []int{30}, h.prompter.widths)
}

func TestRunSpellcheckCorrectsTitleAndBody(t *testing.T) {
	t.Parallel()

	h := newHarness(config.Default())
	h.wf.Speller = fakeSpeller{fixes: map[string]string{
		"teh bug":        "the bug",
		"recieve events": "receive events",
	}}
	h.editor.answers["fix"] = []editor.Result{done("fix: ", "teh bug")}
	h.editor.answers[BodyLabel] = []editor.Result{done("", "recieve events")}

	require.NoError(t, h.wf.Run(context.Background()))
	require.Equal(t, []string{"fix: the bug\n\nreceive events"}, h.repo.commits)
	require.Len(t, h.editor.asked, 4)
}

func TestRunSpellcheckDisabledByConfig(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Spellcheck = false
	h := newHarness(cfg)
	h.wf.Speller = fakeSpeller{fixes: map[string]string{"teh": "the"}}
	h.editor.answers["fix"] = []editor.Result{done("fix: ", "teh")}

	require.NoError(t, h.wf.Run(context.Background()))
	require.Equal(t, []string{"fix: teh"}, h.repo.commits)
}

func TestRunSpellcheckOverflowReEditsTitle(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.MaxLength = 11
	h := newHarness(cfg)
	h.wf.Speller = fakeSpeller{fixes: map[string]string{"thru": "through"}}
	h.editor.answers["fix"] = []editor.Result{
		done("fix: ", "thru"),
		done("fix: ", "thrugh"),
	}

	require.NoError(t, h.wf.Run(context.Background()))
	require.Len(t, h.editor.asked, 5)
	reEdit := h.editor.asked[4]
	require.Equal(t, "fix", reEdit.Label)
	require.Equal(t, "through", reEdit.Seed)
	require.Equal(t, 11, reEdit.MaxLength)
	require.Equal(t, []string{"fix: thrugh"}, h.repo.commits)
}

func TestRunSpellcheckFailureKeepsText(t *testing.T) {
	t.Parallel()

	for _, spellErr := range []error{spell.ErrCancelled, spell.ErrUnavailable} {
		h := newHarness(config.Default())
		h.wf.Speller = fakeSpeller{err: spellErr}
		h.editor.answers["fix"] = []editor.Result{done("fix: ", "teh")}

		require.NoError(t, h.wf.Run(context.Background()))
		require.Equal(t, []string{"fix: teh"}, h.repo.commits)
	}
}
