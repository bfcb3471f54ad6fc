// Package logging builds the debug logger. The composer owns the terminal
// while it runs, so logs never go to stdout or stderr: they are discarded
// unless debugging is on, and then written to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvDebug turns debug logging on like the --debug flag.
const EnvDebug = "GITMESS_DEBUG"

// DefaultPath is the log file used when none is given.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "git-mess-debug.log")
}

// Enabled reports whether debug logging was requested by flag or environment.
func Enabled(flag bool) bool {
	if flag {
		return true
	}
	v := os.Getenv(EnvDebug)
	return v == "1" || v == "true"
}

// New returns a no-op logger unless debug is set, in which case a
// development logger appends to path.
func New(debug bool, path string) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	if path == "" {
		path = DefaultPath()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.DisableStacktrace = true
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}
