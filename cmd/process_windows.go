//go:build windows

package cmd

import (
	"os"
	"os/exec"
	"syscall"
)

// setDetached starts cmd in a new process group so Ctrl+C in the parent
// console does not reach it.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// stopProcess kills proc; Windows has no SIGTERM to deliver.
func stopProcess(proc *os.Process) error {
	return proc.Kill()
}
