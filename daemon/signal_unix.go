//go:build !windows

package daemon

import (
	"os"
	"os/signal"
	"syscall"

	"dispatch/log"
)

// handleSignals turns SIGHUP into a forced reload until shutdown.
func (d *Daemon) handleSignals() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	defer signal.Stop(ch)

	for {
		select {
		case <-ch:
			log.Info("SIGHUP received, reloading config")
			d.Refresh()
		case <-d.opts.Signal.Done():
			return nil
		}
	}
}
