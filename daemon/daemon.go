// Package daemon runs the heartbeat and reload loops around a registry.Slot.
package daemon

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"dispatch/config"
	"dispatch/hotkey"
	"dispatch/log"
	"dispatch/registry"
	"dispatch/shutdown"
)

type Options struct {
	ConfigPath        string
	ReloadInterval    time.Duration
	HeartbeatInterval time.Duration
	NewHook           hotkey.NewHookFunc
	Dispatcher        registry.Dispatcher
	Signal            *shutdown.Signal
	// Watch nudges a reload when the config file changes on disk.
	Watch bool
}

type Daemon struct {
	opts   Options
	slot   *registry.Slot
	nudge  chan struct{}
	forced atomic.Bool
}

func New(opts Options) *Daemon {
	if opts.ReloadInterval <= 0 {
		opts.ReloadInterval = config.DefaultReloadInterval
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = config.DefaultHeartbeatInterval
	}
	return &Daemon{
		opts: opts,
		slot: registry.NewSlot(registry.Options{
			NewHook:    opts.NewHook,
			Dispatcher: opts.Dispatcher,
			Signal:     opts.Signal,
		}),
		nudge: make(chan struct{}, 1),
	}
}

// Start installs the first registry. Config problems degrade to an empty
// config; a registry failure is fatal and raises the termination signal.
func (d *Daemon) Start() error {
	cfg, err := config.Load(d.opts.ConfigPath)
	if err != nil {
		log.Warnf("config unavailable, starting with no bindings: %v", err)
		cfg = config.Config{}
	}
	if err := d.install(cfg); err != nil {
		d.opts.Signal.Set()
		d.slot.Close()
		return fmt.Errorf("first build: %w", err)
	}
	return nil
}

// Run blocks until the termination signal is set, then tears down the live
// registry. Spawned scripts are not waited on.
func (d *Daemon) Run() error {
	defer func() {
		if err := d.slot.Close(); err != nil {
			log.Warnf("closing registry: %v", err)
		}
	}()

	var g errgroup.Group
	g.Go(d.heartbeat)
	g.Go(d.reloadLoop)
	g.Go(d.handleSignals)
	if d.opts.Watch {
		w, err := newWatcher(d.opts.ConfigPath)
		if err != nil {
			log.Warnf("config watcher disabled: %v", err)
		} else {
			g.Go(func() error { return d.watch(w) })
		}
	}
	return g.Wait()
}

// Nudge requests a reload before the next tick. Requests coalesce.
func (d *Daemon) Nudge() {
	select {
	case d.nudge <- struct{}{}:
	default:
	}
}

// Refresh is Nudge that also reinstalls an unchanged config, re-opening the
// OS hook.
func (d *Daemon) Refresh() {
	d.forced.Store(true)
	d.Nudge()
}

// Registry returns the live registry, or nil.
func (d *Daemon) Registry() *registry.Registry {
	return d.slot.Current()
}

func (d *Daemon) heartbeat() error {
	t := time.NewTicker(d.opts.HeartbeatInterval)
	defer t.Stop()
	for range t.C {
		if d.opts.Signal.IsSet() {
			log.Info("termination hotkey pressed")
			return nil
		}
	}
	return nil
}

func (d *Daemon) reloadLoop() error {
	t := time.NewTicker(d.opts.ReloadInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
		case <-d.nudge:
		case <-d.opts.Signal.Done():
			return nil
		}
		if d.opts.Signal.IsSet() {
			return nil
		}
		d.reloadOnce()
	}
}

// reloadOnce runs one reload cycle. Errors are logged and returned; the
// previous registry stays live.
func (d *Daemon) reloadOnce() error {
	cfg, err := config.Load(d.opts.ConfigPath)
	switch {
	case err == nil:
	case errors.Is(err, config.ErrNotFound):
		cfg = config.Config{}
	default:
		log.Errorf("config reload failed, keeping previous bindings: %v", err)
		return err
	}

	forced := d.forced.Swap(false)
	if cur := d.slot.Current(); cur != nil && !forced {
		if cur.Matches(registry.Prepare(cfg)) {
			return nil
		}
	}
	if err := d.install(cfg); err != nil {
		if d.slot.Current() == nil {
			// Nothing is registered, not even the termination hotkey.
			log.Errorf("reload failed and previous bindings could not be restored, stopping: %v", err)
			d.opts.Signal.Set()
			return err
		}
		log.Errorf("reload failed, keeping previous bindings: %v", err)
		return err
	}
	return nil
}

func (d *Daemon) install(cfg config.Config) error {
	start := time.Now()
	if err := d.slot.Install(cfg); err != nil {
		return err
	}
	r := d.slot.Current()

	for _, key := range cfg.Undecoded {
		log.Warnf("unknown config key %q ignored", key)
	}
	for _, s := range r.Skipped() {
		log.Skipped(s.Index, s.Key, s.Err)
	}
	for _, b := range r.Bindings() {
		log.Binding(b.Hotkey.String(), b.Script)
	}
	log.Reload(len(r.Bindings()), len(r.Skipped()), time.Since(start))
	return nil
}
