//go:build darwin || windows

package hotkey

import (
	"fmt"
	"sync"

	xhotkey "golang.design/x/hotkey"
)

type xRegistration struct {
	hk   *xhotkey.Hotkey
	stop chan struct{}
}

// xHook registers each combination with golang.design/x/hotkey (Cocoa/Win32).
// Matching is exact: every modifier state is part of the combination.
type xHook struct {
	mu     sync.Mutex
	regs   map[Hotkey]*xRegistration
	closed bool
}

// New creates a hook backed by golang.design/x/hotkey. On darwin the caller
// must run on mainthread.Init.
func New() (Hook, error) {
	return &xHook{regs: make(map[Hotkey]*xRegistration)}, nil
}

func (h *xHook) Register(hk Hotkey, fn func()) error {
	key, ok := xKeys[hk.Key]
	if !ok {
		return &KeyMappingError{Name: hk.Key.String()}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if _, ok := h.regs[hk]; ok {
		return ErrAlreadyRegistered
	}

	x := xhotkey.New(xModifiers(hk.Mods), key)
	if err := x.Register(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAlreadyRegistered, hk, err)
	}
	reg := &xRegistration{hk: x, stop: make(chan struct{})}
	h.regs[hk] = reg

	go func() {
		for {
			select {
			case <-reg.stop:
				return
			case <-x.Keydown():
				fn()
			}
		}
	}()
	return nil
}

func (h *xHook) Unregister(hk Hotkey) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	reg, ok := h.regs[hk]
	if !ok {
		return ErrNotRegistered
	}
	delete(h.regs, hk)
	return reg.release()
}

func (h *xHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	var firstErr error
	for hk, reg := range h.regs {
		if err := reg.release(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(h.regs, hk)
	}
	return firstErr
}

func (r *xRegistration) release() error {
	close(r.stop)
	return r.hk.Unregister()
}

func xModifiers(m Modifiers) []xhotkey.Modifier {
	var mods []xhotkey.Modifier
	for _, mod := range []Modifiers{ModCtrl, ModShift, ModAlt, ModMeta} {
		if m.Has(mod) {
			mods = append(mods, modifierMap[mod])
		}
	}
	return mods
}

var xKeys = map[Key]xhotkey.Key{
	KeyA:      xhotkey.KeyA,
	KeyB:      xhotkey.KeyB,
	KeyC:      xhotkey.KeyC,
	KeyD:      xhotkey.KeyD,
	KeyE:      xhotkey.KeyE,
	KeyF:      xhotkey.KeyF,
	KeyG:      xhotkey.KeyG,
	KeyH:      xhotkey.KeyH,
	KeyI:      xhotkey.KeyI,
	KeyJ:      xhotkey.KeyJ,
	KeyK:      xhotkey.KeyK,
	KeyL:      xhotkey.KeyL,
	KeyM:      xhotkey.KeyM,
	KeyN:      xhotkey.KeyN,
	KeyO:      xhotkey.KeyO,
	KeyP:      xhotkey.KeyP,
	KeyQ:      xhotkey.KeyQ,
	KeyR:      xhotkey.KeyR,
	KeyS:      xhotkey.KeyS,
	KeyT:      xhotkey.KeyT,
	KeyU:      xhotkey.KeyU,
	KeyV:      xhotkey.KeyV,
	KeyW:      xhotkey.KeyW,
	KeyX:      xhotkey.KeyX,
	KeyY:      xhotkey.KeyY,
	KeyZ:      xhotkey.KeyZ,
	Key0:      xhotkey.Key0,
	Key1:      xhotkey.Key1,
	Key2:      xhotkey.Key2,
	Key3:      xhotkey.Key3,
	Key4:      xhotkey.Key4,
	Key5:      xhotkey.Key5,
	Key6:      xhotkey.Key6,
	Key7:      xhotkey.Key7,
	Key8:      xhotkey.Key8,
	Key9:      xhotkey.Key9,
	KeyF1:     xhotkey.KeyF1,
	KeyF2:     xhotkey.KeyF2,
	KeyF3:     xhotkey.KeyF3,
	KeyF4:     xhotkey.KeyF4,
	KeyF5:     xhotkey.KeyF5,
	KeyF6:     xhotkey.KeyF6,
	KeyF7:     xhotkey.KeyF7,
	KeyF8:     xhotkey.KeyF8,
	KeyF9:     xhotkey.KeyF9,
	KeyF10:    xhotkey.KeyF10,
	KeyF11:    xhotkey.KeyF11,
	KeyF12:    xhotkey.KeyF12,
	KeySpace:  xhotkey.KeySpace,
	KeyReturn: xhotkey.KeyReturn,
	KeyEscape: xhotkey.KeyEscape,
	KeyTab:    xhotkey.KeyTab,
	KeyDelete: xhotkey.KeyDelete,
	KeyLeft:   xhotkey.KeyLeft,
	KeyRight:  xhotkey.KeyRight,
	KeyUp:     xhotkey.KeyUp,
	KeyDown:   xhotkey.KeyDown,
}

// Diagnose checks hotkey availability and returns a status message.
func Diagnose() (string, error) {
	return "hotkey support available (golang.design/x/hotkey)", nil
}
