//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey         = 1
	keyRelease    = 0
	keyPress      = 1
	keyAutoRepeat = 2
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

var modifierCodes = map[uint16]Modifiers{
	29:  ModCtrl,  // KEY_LEFTCTRL
	97:  ModCtrl,  // KEY_RIGHTCTRL
	42:  ModShift, // KEY_LEFTSHIFT
	54:  ModShift, // KEY_RIGHTSHIFT
	56:  ModAlt,   // KEY_LEFTALT
	100: ModAlt,   // KEY_RIGHTALT
	125: ModMeta,  // KEY_LEFTMETA
	126: ModMeta,  // KEY_RIGHTMETA
}

// evdevHook reads /dev/input directly. Requires the user to be in the
// 'input' group. A binding fires when its key is pressed while at least its
// modifiers are held; modifiers it does not name are ignored. When several
// bindings share a key, the one naming the most held modifiers wins.
type evdevHook struct {
	mu     sync.Mutex
	binds  map[Hotkey]func()
	files  []*os.File
	stop   chan struct{}
	once   sync.Once
	closed bool
}

// New opens every readable keyboard device and starts one reader per device.
func New() (Hook, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return nil, fmt.Errorf("%w: finding keyboards: %w", ErrUnavailable, err)
	}
	if len(keyboards) == 0 {
		return nil, fmt.Errorf("%w: no keyboard devices found (is user in 'input' group?)", ErrUnavailable)
	}

	h := &evdevHook{
		binds: make(map[Hotkey]func()),
		stop:  make(chan struct{}),
	}
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
	}
	if len(h.files) == 0 {
		return nil, fmt.Errorf("%w: could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)", ErrUnavailable)
	}
	for _, f := range h.files {
		go h.readEvents(f)
	}
	return h, nil
}

func (h *evdevHook) Register(hk Hotkey, fn func()) error {
	if _, ok := evdevCodes[hk.Key]; !ok {
		return &KeyMappingError{Name: hk.Key.String()}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if _, ok := h.binds[hk]; ok {
		return ErrAlreadyRegistered
	}
	h.binds[hk] = fn
	return nil
}

func (h *evdevHook) Unregister(hk Hotkey) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.binds[hk]; !ok {
		return ErrNotRegistered
	}
	delete(h.binds, hk)
	return nil
}

func (h *evdevHook) Close() error {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.binds = make(map[Hotkey]func())
		h.mu.Unlock()
		close(h.stop)
		for _, f := range h.files {
			f.Close()
		}
	})
	return nil
}

func (h *evdevHook) match(key Key, held Modifiers) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	var (
		best  func()
		score = -1
	)
	for hk, fn := range h.binds {
		if hk.Key != key || !held.Has(hk.Mods) {
			continue
		}
		if n := hk.Mods.count(); n > score {
			best, score = fn, n
		}
	}
	return best
}

func (h *evdevHook) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	// Held modifiers are tracked per device and per hook: a modifier held on
	// another keyboard, or pressed before this hook was opened, does not count.
	down := make(map[uint16]bool)

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}

			if _, ok := modifierCodes[evCode]; ok {
				down[evCode] = evValue != keyRelease
				continue
			}
			if evValue != keyPress && evValue != keyAutoRepeat {
				continue
			}
			key, ok := evdevKeys[evCode]
			if !ok {
				continue
			}
			if fn := h.match(key, heldModifiers(down)); fn != nil {
				fn()
			}
		}
	}
}

func heldModifiers(down map[uint16]bool) Modifiers {
	var m Modifiers
	for code, pressed := range down {
		if pressed {
			m |= modifierCodes[code]
		}
	}
	return m
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		path := filepath.Join("/dev/input", e.Name())
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, path)
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
