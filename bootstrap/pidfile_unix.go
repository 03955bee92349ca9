//go:build !windows

package bootstrap

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// PidFile is an exclusively locked file holding the daemon's pid.
type PidFile struct {
	f    *os.File
	path string
}

// AcquirePidFile locks path and writes the current pid to it. It fails with
// ErrRunning while another process holds the lock.
func AcquirePidFile(path string) (*PidFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, &Error{Op: "open pid file", Err: err}
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, &Error{Op: "lock pid file", Err: fmt.Errorf("%w: %s", ErrRunning, path)}
		}
		return nil, &Error{Op: "lock pid file", Err: err}
	}
	if err := writePid(f); err != nil {
		f.Close()
		return nil, &Error{Op: "write pid file", Err: err}
	}
	return &PidFile{f: f, path: path}, nil
}

// Release removes the file while still holding the lock, then unlocks it.
func (p *PidFile) Release() error {
	err := os.Remove(p.path)
	unix.Flock(int(p.f.Fd()), unix.LOCK_UN)
	if cerr := p.f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writePid(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return err
	}
	return f.Sync()
}
