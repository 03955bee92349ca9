//go:build windows

package bootstrap

// Detach is a no-op on windows. The binary is linked as a GUI-subsystem
// program, so it already runs without a console.
func Detach(l Layout) (bool, error) {
	return false, nil
}
