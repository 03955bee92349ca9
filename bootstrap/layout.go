// Package bootstrap prepares the executable-relative directory layout,
// detaches the process into the background and guards it with a pid file.
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dispatch/config"
)

const (
	DaemonDirName    = "daemon"
	ResourcesDirName = "resources"
	PidName          = "daemon.pid"
	StdoutName       = "daemon.out"
	StderrName       = "daemon.err"
)

// ErrRunning means another instance holds the pid file.
var ErrRunning = errors.New("daemon already running")

// Error is a failure to set the process up. It is always fatal.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bootstrap %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Layout is the set of paths the daemon uses, all beside the executable.
type Layout struct {
	ExeDir       string
	DaemonDir    string
	ResourcesDir string
	ConfigPath   string
	PidPath      string
}

func LayoutFor(exeDir string) Layout {
	daemonDir := filepath.Join(exeDir, DaemonDirName)
	resources := filepath.Join(exeDir, ResourcesDirName)
	return Layout{
		ExeDir:       exeDir,
		DaemonDir:    daemonDir,
		ResourcesDir: resources,
		ConfigPath:   filepath.Join(resources, config.FileName),
		PidPath:      filepath.Join(daemonDir, PidName),
	}
}

// Locate returns the layout for the running executable.
func Locate() (Layout, error) {
	exe, err := os.Executable()
	if err != nil {
		return Layout{}, &Error{Op: "locate executable", Err: err}
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return LayoutFor(filepath.Dir(exe)), nil
}

// Ensure creates the daemon and resources directories and an empty config
// file if none exists. An existing config is never touched.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.DaemonDir, l.ResourcesDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &Error{Op: "create directory", Err: err}
		}
	}
	f, err := os.OpenFile(l.ConfigPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return &Error{Op: "create config", Err: err}
	}
	return f.Close()
}
