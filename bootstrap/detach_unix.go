//go:build !windows

package bootstrap

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/term"
)

const bgEnv = "_DISPATCH_BG"

// Detach re-executes the binary in a new session with stdout and stderr
// redirected into the daemon directory. It reports true in the parent, which
// should exit; the background child gets false.
func Detach(l Layout) (bool, error) {
	if os.Getenv(bgEnv) != "" {
		return false, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return false, &Error{Op: "detach", Err: err}
	}
	devnull, err := os.Open(os.DevNull)
	if err != nil {
		return false, &Error{Op: "detach", Err: err}
	}
	defer devnull.Close()
	stdout, err := openAppend(filepath.Join(l.DaemonDir, StdoutName))
	if err != nil {
		return false, &Error{Op: "detach", Err: err}
	}
	defer stdout.Close()
	stderr, err := openAppend(filepath.Join(l.DaemonDir, StderrName))
	if err != nil {
		return false, &Error{Op: "detach", Err: err}
	}
	defer stderr.Close()

	cmd := exec.Command(exe)
	cmd.Env = append(os.Environ(), bgEnv+"=1")
	cmd.Dir = l.DaemonDir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, stdout, stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return false, &Error{Op: "detach", Err: err}
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("dispatch running in background (pid %d), logs in %s\n", cmd.Process.Pid, l.DaemonDir)
	}
	cmd.Process.Release()
	return true, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
