package registry

import (
	"errors"
	"fmt"
	"sync"

	"dispatch/config"
	"dispatch/log"
)

// Slot holds the single live Registry. At most one Registry owns OS
// registrations at any moment: the old one is closed before the new one
// registers anything.
type Slot struct {
	mu     sync.Mutex
	opts   Options
	cur    *Registry
	closed bool
}

func NewSlot(opts Options) *Slot {
	return &Slot{opts: opts}
}

// Install replaces the live Registry with one built from cfg. If the hook
// cannot be opened the current Registry stays untouched. If the new plan
// cannot take the reserved hotkey, the previous plan is registered again
// before returning the error; should that fail too, no Registry is live.
func (s *Slot) Install(cfg config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	plan := Prepare(cfg)
	hook, err := s.opts.NewHook()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHookUnavailable, err)
	}

	prev := s.cur
	if prev != nil {
		if err := prev.Close(); err != nil {
			log.Warnf("closing previous registry: %v", err)
		}
		s.cur = nil
	}

	r, err := register(hook, plan, s.opts)
	if err == nil {
		s.cur = r
		return nil
	}
	if prev == nil {
		return err
	}

	log.Warnf("install failed, restoring previous bindings: %v", err)
	old, rerr := s.rebuild(prev.plan)
	if rerr != nil {
		log.Errorf("restoring previous bindings: %v", rerr)
		return errors.Join(err, rerr)
	}
	s.cur = old
	return err
}

func (s *Slot) rebuild(plan Plan) (*Registry, error) {
	hook, err := s.opts.NewHook()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHookUnavailable, err)
	}
	return register(hook, plan, s.opts)
}

// Current returns the live Registry, or nil if none is installed.
func (s *Slot) Current() *Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Close tears down the live Registry. Later Install calls fail with ErrClosed.
func (s *Slot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cur == nil {
		return nil
	}
	err := s.cur.Close()
	s.cur = nil
	return err
}
