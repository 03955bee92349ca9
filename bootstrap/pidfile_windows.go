//go:build windows

package bootstrap

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// lockOffset puts the locked byte past the pid text so other processes can
// still read it.
const lockOffset = 1 << 20

type PidFile struct {
	f    *os.File
	path string
}

// AcquirePidFile locks path with LockFileEx and writes the current pid to
// it. It fails with ErrRunning while another process holds the lock.
func AcquirePidFile(path string) (*PidFile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, &Error{Op: "open pid file", Err: err}
	}
	ol := &windows.Overlapped{Offset: lockOffset}
	flags := uint32(windows.LOCKFILE_EXCLUSIVE_LOCK | windows.LOCKFILE_FAIL_IMMEDIATELY)
	if err := windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, 1, 0, ol); err != nil {
		f.Close()
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return nil, &Error{Op: "lock pid file", Err: fmt.Errorf("%w: %s", ErrRunning, path)}
		}
		return nil, &Error{Op: "lock pid file", Err: err}
	}
	if err := f.Truncate(0); err != nil {
		f.Close()
		return nil, &Error{Op: "write pid file", Err: err}
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		f.Close()
		return nil, &Error{Op: "write pid file", Err: err}
	}
	return &PidFile{f: f, path: path}, nil
}

// Release unlocks and closes the file before removing it; windows refuses to
// delete an open file.
func (p *PidFile) Release() error {
	windows.UnlockFileEx(windows.Handle(p.f.Fd()), 0, 1, 0, &windows.Overlapped{Offset: lockOffset})
	p.f.Close()
	return os.Remove(p.path)
}
