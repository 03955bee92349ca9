// Package shutdown holds the process-wide termination signal.
package shutdown

import (
	"sync"
	"sync/atomic"
)

// Signal is a one-shot flag. Once set it stays set for the life of the
// process. The zero value is not usable; call New.
type Signal struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Set raises the signal. It reports whether this call changed the state.
func (s *Signal) Set() bool {
	changed := s.set.CompareAndSwap(false, true)
	s.once.Do(func() { close(s.done) })
	return changed
}

func (s *Signal) IsSet() bool {
	return s.set.Load()
}

// Done is closed when the signal is first set.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}
