//go:build !linux && !darwin && !windows

package hotkey

import (
	"fmt"
	"runtime"
)

func New() (Hook, error) {
	return nil, fmt.Errorf("%w: no hotkey backend for %s", ErrUnavailable, runtime.GOOS)
}

func Diagnose() (string, error) {
	return "", fmt.Errorf("no hotkey backend for %s", runtime.GOOS)
}
