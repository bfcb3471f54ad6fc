package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/dlnilsson/git-mess/pkg/proc"
)

var ErrNotGitDir = errors.New("not a git directory")

// gitCmd returns an exec.Cmd for git with GIT_PAGER=cat set so that git never
// invokes a pager regardless of the user's config.
func gitCmd(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Env = append(cmd.Environ(), "GIT_PAGER=cat")
	return cmd
}

func checkGitDir(ctx context.Context) error {
	check := gitCmd(ctx, "rev-parse", "--git-dir")
	check.Stderr = io.Discard
	if err := check.Run(); err != nil {
		return ErrNotGitDir
	}
	return nil
}

// TopLevel returns the root of the working tree.
func TopLevel(ctx context.Context) (string, error) {
	if err := checkGitDir(ctx); err != nil {
		return "", err
	}
	cmd := gitCmd(ctx, "rev-parse", "--show-toplevel")
	cmd.Stderr = io.Discard
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to find repository root (git rev-parse --show-toplevel): %w", err)
	}
	return strings.TrimRight(string(out), "\r\n"), nil
}

// HasStaged reports whether the index differs from HEAD.
func HasStaged(ctx context.Context) (bool, error) {
	if err := checkGitDir(ctx); err != nil {
		return false, err
	}
	cmd := gitCmd(ctx, "diff", "--cached", "--quiet")
	cmd.Stderr = io.Discard
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, fmt.Errorf("failed to check staged changes (git diff --cached --quiet): %w", err)
}

// Repo commits through git, registering the running process so signals are
// forwarded to it and hooks. Spinner, when set, is started for the duration
// of the commit and returns its stop function.
type Repo struct {
	Registry *proc.Registry
	Spinner  func(message string) func()
	Out      io.Writer
	Log      *zap.Logger
}

func (r *Repo) HasStaged(ctx context.Context) (bool, error) {
	return HasStaged(ctx)
}

// Commit runs git commit with message. Git's own output (hook output and the
// commit summary) is written to Out once the process exits.
func (r *Repo) Commit(ctx context.Context, message string) error {
	log := r.log()
	cmd := gitCmd(ctx, "commit", "--message", message)
	proc.SetProcessGroup(cmd)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	var stopSpinner func()
	if r.Spinner != nil {
		stopSpinner = r.Spinner("Committing...")
		defer stopSpinner()
	}

	log.Debug("git commit", zap.Int("message_bytes", len(message)))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start git commit: %w", err)
	}
	if r.Registry != nil {
		r.Registry.Register(cmd, stopSpinner)
		defer r.Registry.Unregister()
	}
	err := cmd.Wait()
	if stopSpinner != nil {
		stopSpinner()
	}
	if r.Out != nil {
		_, _ = r.Out.Write(output.Bytes())
	}
	if err != nil {
		if r.Registry != nil && r.Registry.WasInterrupted() {
			return errors.New("git commit interrupted")
		}
		log.Warn("git commit failed", zap.Error(err))
		return fmt.Errorf("git commit failed: %w", err)
	}
	return nil
}

func (r *Repo) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
