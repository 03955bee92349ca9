package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnavailable       = errors.New("hotkey hook unavailable")
	ErrAlreadyRegistered = errors.New("hotkey already registered")
	ErrNotRegistered     = errors.New("hotkey not registered")
	ErrClosed            = errors.New("hotkey hook closed")
)

// Modifiers is a set of modifier keys that must be held for a Hotkey to fire.
type Modifiers uint8

const (
	ModAlt Modifiers = 1 << iota
	ModMeta
	ModShift
	ModCtrl
)

func (m Modifiers) Has(o Modifiers) bool { return m&o == o }

func (m Modifiers) count() int {
	n := 0
	for b := m; b != 0; b &= b - 1 {
		n++
	}
	return n
}

func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// Hotkey is one key plus the modifiers required with it. It is comparable and
// used as a map key for registrations.
type Hotkey struct {
	Key  Key
	Mods Modifiers
}

func (h Hotkey) String() string {
	if h.Mods == 0 {
		return h.Key.String()
	}
	return h.Mods.String() + "+" + h.Key.String()
}

// Reserved stops the daemon. It is registered after every user binding.
var Reserved = Hotkey{Key: KeyE, Mods: ModCtrl | ModShift | ModAlt}

// Hook is one OS-level hotkey hook instance. Callbacks run on the hook's own
// delivery goroutine and must not block.
type Hook interface {
	Register(hk Hotkey, fn func()) error
	Unregister(hk Hotkey) error
	// Close unregisters everything still registered and releases the hook.
	Close() error
}

type NewHookFunc func() (Hook, error)

// KeyMappingError reports a key identifier with no known key code.
type KeyMappingError struct {
	Name string
}

func (e *KeyMappingError) Error() string {
	return fmt.Sprintf("unrecognized key identifier %q", e.Name)
}
