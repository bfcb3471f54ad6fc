//go:build windows

package proc

import (
	"os"
	"os/exec"
)

func forwardToProcessGroup(*exec.Cmd, os.Signal) bool {
	return false
}

func SetProcessGroup(*exec.Cmd) {}
