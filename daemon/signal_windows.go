//go:build windows

package daemon

// handleSignals is a no-op: there is no SIGHUP on windows.
func (d *Daemon) handleSignals() error {
	return nil
}
