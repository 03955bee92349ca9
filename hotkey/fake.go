package hotkey

import "sync"

// FakeSystem simulates the OS side of global hotkeys: a key combination can
// be owned by at most one live hook at a time, as with RegisterHotKey or an
// X11 grab.
type FakeSystem struct {
	mu     sync.Mutex
	owners map[Hotkey]*FakeHook
	opened int
	fail   error
	refuse map[Hotkey]int
}

func NewFakeSystem() *FakeSystem {
	return &FakeSystem{
		owners: make(map[Hotkey]*FakeHook),
		refuse: make(map[Hotkey]int),
	}
}

// NewHook opens a hook attached to the system.
func (s *FakeSystem) NewHook() (Hook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	s.opened++
	return &FakeHook{sys: s, fns: make(map[Hotkey]func())}, nil
}

// FailOpen makes subsequent NewHook calls return err. A nil err clears it.
func (s *FakeSystem) FailOpen(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}

// Seize marks hk as owned by some other program.
func (s *FakeSystem) Seize(hk Hotkey) {
	s.mu.Lock()
	s.owners[hk] = &FakeHook{}
	s.mu.Unlock()
}

// RefuseNext makes the next Register of hk fail once, as if another program
// grabbed the combination briefly.
func (s *FakeSystem) RefuseNext(hk Hotkey) {
	s.mu.Lock()
	s.refuse[hk]++
	s.mu.Unlock()
}

// Release undoes Seize.
func (s *FakeSystem) Release(hk Hotkey) {
	s.mu.Lock()
	delete(s.owners, hk)
	s.mu.Unlock()
}

// Opened returns how many hooks were opened so far.
func (s *FakeSystem) Opened() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// Registered returns how many combinations are currently owned by hooks.
func (s *FakeSystem) Registered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.owners)
}

// Press simulates a key press and runs the owning callback synchronously.
// It reports whether any hook handled it.
func (s *FakeSystem) Press(hk Hotkey) bool {
	s.mu.Lock()
	h := s.owners[hk]
	var fn func()
	if h != nil && h.fns != nil {
		fn = h.fns[hk]
	}
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

type FakeHook struct {
	sys    *FakeSystem
	fns    map[Hotkey]func()
	closed bool
}

func (h *FakeHook) Register(hk Hotkey, fn func()) error {
	h.sys.mu.Lock()
	defer h.sys.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.sys.refuse[hk] > 0 {
		h.sys.refuse[hk]--
		return ErrAlreadyRegistered
	}
	if owner, ok := h.sys.owners[hk]; ok && owner != h {
		return ErrAlreadyRegistered
	}
	h.sys.owners[hk] = h
	h.fns[hk] = fn
	return nil
}

func (h *FakeHook) Unregister(hk Hotkey) error {
	h.sys.mu.Lock()
	defer h.sys.mu.Unlock()
	if _, ok := h.fns[hk]; !ok {
		return ErrNotRegistered
	}
	delete(h.fns, hk)
	if h.sys.owners[hk] == h {
		delete(h.sys.owners, hk)
	}
	return nil
}

func (h *FakeHook) Close() error {
	h.sys.mu.Lock()
	defer h.sys.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for hk := range h.fns {
		if h.sys.owners[hk] == h {
			delete(h.sys.owners, hk)
		}
	}
	h.fns = nil
	return nil
}
