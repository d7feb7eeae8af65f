//go:build !windows

package cmd

import (
	"os"
	"os/exec"
	"syscall"
	"time"
)

// setDetached starts cmd in its own session so it outlives the terminal.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// stopProcess sends SIGTERM and escalates to SIGKILL when proc is still
// alive after stopGrace.
func stopProcess(proc *os.Process) error {
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return err
	}
	deadline := time.Now().Add(stopGrace)
	for time.Now().Before(deadline) {
		if proc.Signal(syscall.Signal(0)) != nil {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return proc.Kill()
}
