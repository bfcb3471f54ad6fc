package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dlnilsson/git-mess/pkg/config"
	"github.com/dlnilsson/git-mess/pkg/editor"
	"github.com/dlnilsson/git-mess/pkg/git"
	"github.com/dlnilsson/git-mess/pkg/logging"
	"github.com/dlnilsson/git-mess/pkg/proc"
	"github.com/dlnilsson/git-mess/pkg/rawterm"
	"github.com/dlnilsson/git-mess/pkg/spell"
	"github.com/dlnilsson/git-mess/pkg/ui"
	"github.com/dlnilsson/git-mess/pkg/workflow"
)

// exitAborted is the status for a run the user interrupted.
const exitAborted = 130

type options struct {
	dumpConfig bool
	showConfig bool
	noSpinner  bool
	debug      bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "git-mess",
		Short: "git-mess composes a conventional commit message for the staged changes.",
		Long: `git-mess walks you through a commit message: pick the type of change,
type a title that fits the configured width, then an optional description,
issue code and breaking change note. The message is spellchecked, shown for
confirmation and committed with git commit.

Settings are read from .gitmess (or .gitmess.yaml) at the top of the working
tree. Run with --config to write the defaults there.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.dumpConfig, "config", false, "write the current settings to "+config.FileName+" and exit")
	flags.BoolVar(&opts.showConfig, "show-config", false, "print the effective settings and exit")
	flags.BoolVar(&opts.noSpinner, "no-spinner", false, "disable the spinner while git commit runs")
	flags.BoolVar(&opts.debug, "debug", false, "write debug logs (also "+logging.EnvDebug+"=1)")
	flags.StringVar(&opts.logFile, "log-file", logging.DefaultPath(), "debug log destination")
	return cmd
}

func run(ctx context.Context, opts options) error {
	log, err := logging.New(logging.Enabled(opts.debug), opts.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	top, err := git.TopLevel(ctx)
	if err != nil {
		return err
	}
	cfg, err := config.Load(top)
	if err != nil {
		return err
	}
	log.Debug("config loaded", zap.String("dir", top), zap.Int("max_length", cfg.MaxLength))

	switch {
	case opts.dumpConfig:
		path, err := config.Dump(top, cfg)
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Println("Configuration file already exists")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("Configuration written to %s\n", path)
		return nil
	case opts.showConfig:
		fmt.Print(ui.RenderMarkdown(cfg.Markdown()))
		return nil
	}

	tty, err := rawterm.Open()
	if err != nil {
		return err
	}
	defer tty.Reset()

	var registry proc.Registry
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		for sig := range sigCh {
			if registry.Active() {
				registry.ForwardSignal(sig)
				registry.StopSpinnerIfSet()
				continue
			}
			log.Debug("signal with no child running", zap.Stringer("signal", sig))
			tty.Reset()
			os.Exit(exitAborted)
		}
	}()

	repo := &git.Repo{Registry: &registry, Out: os.Stdout, Log: log}
	if !opts.noSpinner {
		repo.Spinner = func(message string) func() {
			return ui.StartSpinner(message, &registry)
		}
	}

	wf := &workflow.Workflow{
		Config:   cfg,
		Editor:   editor.New(tty, log),
		Repo:     repo,
		Prompter: ui.Prompter{},
		Out:      os.Stdout,
		Log:      log,
	}
	if cfg.Spellcheck {
		checker, err := spell.NewChecker(cfg.SpellCommand, log)
		if err != nil {
			log.Warn("spellcheck disabled", zap.Error(err))
		} else {
			wf.Speller = spell.NewCorrector(checker, ui.SpellChooser{})
		}
	}
	return wf.Run(ctx)
}

func main() {
	err := newRootCmd().ExecuteContext(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, workflow.ErrAborted):
		fmt.Fprintln(os.Stderr)
		os.Exit(exitAborted)
	default:
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
