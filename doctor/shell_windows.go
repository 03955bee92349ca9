//go:build windows

package doctor

import "os/exec"

func checkShell() (string, error) {
	return exec.LookPath("cmd.exe")
}
