//go:build !windows

package doctor

import (
	"fmt"
	"os"
)

func checkShell() (string, error) {
	fi, err := os.Stat("/bin/sh")
	if err != nil {
		return "", err
	}
	if fi.Mode()&0111 == 0 {
		return "", fmt.Errorf("/bin/sh is not executable")
	}
	return "/bin/sh", nil
}
