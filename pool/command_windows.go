//go:build windows

package pool

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// command runs script through cmd.exe without creating a console window.
func command(script string) *exec.Cmd {
	cmd := exec.Command("cmd.exe")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
		CmdLine:       `cmd.exe /C ` + script,
	}
	return cmd
}
