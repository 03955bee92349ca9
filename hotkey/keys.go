package hotkey

import "strings"

// Key is a portable key identity. Backends translate it to their own codes.
type Key uint8

const (
	KeyUnknown Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeySpace
	KeyReturn
	KeyEscape
	KeyTab
	KeyDelete
	KeyLeft
	KeyRight
	KeyUp
	KeyDown

	keyCount
)

var keyNames = [keyCount]string{
	KeyUnknown: "Unknown",
	KeyA:       "A",
	KeyB:       "B",
	KeyC:       "C",
	KeyD:       "D",
	KeyE:       "E",
	KeyF:       "F",
	KeyG:       "G",
	KeyH:       "H",
	KeyI:       "I",
	KeyJ:       "J",
	KeyK:       "K",
	KeyL:       "L",
	KeyM:       "M",
	KeyN:       "N",
	KeyO:       "O",
	KeyP:       "P",
	KeyQ:       "Q",
	KeyR:       "R",
	KeyS:       "S",
	KeyT:       "T",
	KeyU:       "U",
	KeyV:       "V",
	KeyW:       "W",
	KeyX:       "X",
	KeyY:       "Y",
	KeyZ:       "Z",
	Key0:       "0",
	Key1:       "1",
	Key2:       "2",
	Key3:       "3",
	Key4:       "4",
	Key5:       "5",
	Key6:       "6",
	Key7:       "7",
	Key8:       "8",
	Key9:       "9",
	KeyF1:      "F1",
	KeyF2:      "F2",
	KeyF3:      "F3",
	KeyF4:      "F4",
	KeyF5:      "F5",
	KeyF6:      "F6",
	KeyF7:      "F7",
	KeyF8:      "F8",
	KeyF9:      "F9",
	KeyF10:     "F10",
	KeyF11:     "F11",
	KeyF12:     "F12",
	KeySpace:   "Space",
	KeyReturn:  "Enter",
	KeyEscape:  "Escape",
	KeyTab:     "Tab",
	KeyDelete:  "Delete",
	KeyLeft:    "Left",
	KeyRight:   "Right",
	KeyUp:      "Up",
	KeyDown:    "Down",
}

// aliases maps alternative spellings (lower case) to keys. "KeyE" and
// "Digit1" follow the W3C code names used by common hotkey libraries.
var aliases = map[string]Key{
	"return":     KeyReturn,
	"esc":        KeyEscape,
	"del":        KeyDelete,
	"arrowleft":  KeyLeft,
	"arrowright": KeyRight,
	"arrowup":    KeyUp,
	"arrowdown":  KeyDown,
}

var lookup = func() map[string]Key {
	m := make(map[string]Key, 2*int(keyCount)+len(aliases))
	for k := KeyA; k < keyCount; k++ {
		name := strings.ToLower(keyNames[k])
		m[name] = k
		switch {
		case k >= KeyA && k <= KeyZ:
			m["key"+name] = k
		case k >= Key0 && k <= Key9:
			m["digit"+name] = k
		}
	}
	for name, k := range aliases {
		m[name] = k
	}
	return m
}()

func (k Key) String() string {
	if k >= keyCount {
		return keyNames[KeyUnknown]
	}
	return keyNames[k]
}

// ParseKey resolves a key identifier such as "E", "KeyE", "Digit1", "F5" or
// "Space". Matching is case-insensitive.
func ParseKey(name string) (Key, error) {
	if k, ok := lookup[strings.ToLower(strings.TrimSpace(name))]; ok {
		return k, nil
	}
	return KeyUnknown, &KeyMappingError{Name: name}
}
