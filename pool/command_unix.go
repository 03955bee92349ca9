//go:build !windows

package pool

import "os/exec"

func command(script string) *exec.Cmd {
	return exec.Command("/bin/sh", "-c", script)
}
