package registry

import "errors"

var (
	// ErrHookUnavailable means the OS hook subsystem could not be opened.
	ErrHookUnavailable = errors.New("hotkey hook unavailable")
	// ErrRegister wraps the reason a user binding was refused. It is
	// reported through Registry.Skipped and never fails a build.
	ErrRegister = errors.New("hotkey registration failed")
	// ErrReserved means the termination hotkey could not be registered.
	ErrReserved = errors.New("reserved hotkey registration failed")
	// ErrClosed is returned by Slot.Install after Slot.Close.
	ErrClosed = errors.New("registry slot closed")
)
