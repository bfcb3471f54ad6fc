package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dlnilsson/git-mess/pkg/proc"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	t.Chdir(dir)
	for _, args := range [][]string{
		{"init", "--quiet"},
		{"config", "user.name", "Test"},
		{"config", "user.email", "test@example.com"},
		{"config", "commit.gpgsign", "false"},
	} {
		out, err := exec.Command("git", args...).CombinedOutput()
		require.NoError(t, err, string(out))
	}
	return dir
}

func TestNotGitDir(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	t.Chdir(dir)

	_, err := TopLevel(context.Background())
	require.ErrorIs(t, err, ErrNotGitDir)
	_, err = HasStaged(context.Background())
	require.ErrorIs(t, err, ErrNotGitDir)
}

func TestStageAndCommit(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()

	top, err := TopLevel(ctx)
	require.NoError(t, err)
	wantTop, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotTop, err := filepath.EvalSymlinks(top)
	require.NoError(t, err)
	require.Equal(t, wantTop, gotTop)

	staged, err := HasStaged(ctx)
	require.NoError(t, err)
	require.False(t, staged)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644))
	require.NoError(t, exec.Command("git", "add", "a.txt").Run())

	staged, err = HasStaged(ctx)
	require.NoError(t, err)
	require.True(t, staged)

	var (
		out     bytes.Buffer
		reg     proc.Registry
		started []string
		stopped int
	)
	repo := &Repo{
		Registry: &reg,
		Out:      &out,
		Spinner: func(msg string) func() {
			started = append(started, msg)
			return func() { stopped++ }
		},
	}
	const message = "feat: first\n\nBody text.\n\nIssue: GM-1"
	require.NoError(t, repo.Commit(ctx, message))
	require.Equal(t, []string{"Committing..."}, started)
	require.GreaterOrEqual(t, stopped, 1)
	require.False(t, reg.Active())
	require.Contains(t, out.String(), "feat: first")

	logOut, err := exec.Command("git", "log", "-1", "--format=%B").Output()
	require.NoError(t, err)
	require.Equal(t, message, strings.TrimRight(string(logOut), "\n"))

	staged, err = repo.HasStaged(ctx)
	require.NoError(t, err)
	require.False(t, staged)
}

func TestCommitFailsWithNothingStaged(t *testing.T) {
	initRepo(t)

	var out bytes.Buffer
	repo := &Repo{Out: &out}
	err := repo.Commit(context.Background(), "fix: nothing")
	require.Error(t, err)
	require.NotEmpty(t, out.String())
}
