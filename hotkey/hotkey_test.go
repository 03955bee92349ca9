package hotkey

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"E", KeyE},
		{"e", KeyE},
		{"KeyE", KeyE},
		{"keyq", KeyQ},
		{"1", Key1},
		{"Digit0", Key0},
		{"F5", KeyF5},
		{"f12", KeyF12},
		{"Space", KeySpace},
		{"Enter", KeyReturn},
		{"Return", KeyReturn},
		{"Esc", KeyEscape},
		{"ArrowUp", KeyUp},
		{" Tab ", KeyTab},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if err != nil {
			t.Errorf("ParseKey(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseKeyUnknown(t *testing.T) {
	for _, in := range []string{"", "KeyAA", "F13", "Hyper", "Unknown"} {
		_, err := ParseKey(in)
		var kerr *KeyMappingError
		if !errors.As(err, &kerr) {
			t.Errorf("ParseKey(%q) err = %v, want *KeyMappingError", in, err)
			continue
		}
		if kerr.Name != in {
			t.Errorf("KeyMappingError.Name = %q, want %q", kerr.Name, in)
		}
	}
}

func TestHotkeyString(t *testing.T) {
	if got := Reserved.String(); got != "Ctrl+Shift+Alt+E" {
		t.Errorf("Reserved.String() = %q", got)
	}
	if got := (Hotkey{Key: KeyQ}).String(); got != "Q" {
		t.Errorf("got %q, want Q", got)
	}
}

func TestModifiersCount(t *testing.T) {
	if n := (ModCtrl | ModShift | ModAlt).count(); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
	if n := Modifiers(0).count(); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestFakeSystemSingleOwner(t *testing.T) {
	sys := NewFakeSystem()
	a, _ := sys.NewHook()
	b, _ := sys.NewHook()
	hk := Hotkey{Key: KeyQ}

	if err := a.Register(hk, func() {}); err != nil {
		t.Fatal(err)
	}
	if err := b.Register(hk, func() {}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second owner err = %v, want ErrAlreadyRegistered", err)
	}
	a.Close()
	if err := b.Register(hk, func() {}); err != nil {
		t.Fatalf("register after close: %v", err)
	}
	if sys.Registered() != 1 {
		t.Errorf("Registered() = %d, want 1", sys.Registered())
	}
}

func TestFakeSystemPress(t *testing.T) {
	sys := NewFakeSystem()
	h, _ := sys.NewHook()
	hk := Hotkey{Key: KeyA, Mods: ModCtrl}
	fired := 0
	h.Register(hk, func() { fired++ })

	if !sys.Press(hk) {
		t.Fatal("press not handled")
	}
	if sys.Press(Hotkey{Key: KeyA}) {
		t.Error("press without modifiers should not be handled")
	}
	if err := h.Unregister(hk); err != nil {
		t.Fatal(err)
	}
	if sys.Press(hk) {
		t.Error("press after unregister should not be handled")
	}
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if err := h.Unregister(hk); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("double unregister err = %v", err)
	}
}

func TestFakeSystemFailOpen(t *testing.T) {
	sys := NewFakeSystem()
	sys.FailOpen(ErrUnavailable)
	if _, err := sys.NewHook(); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	sys.FailOpen(nil)
	if _, err := sys.NewHook(); err != nil {
		t.Fatal(err)
	}
}

func TestFakeSystemRefuseNext(t *testing.T) {
	sys := NewFakeSystem()
	h, _ := sys.NewHook()
	hk := Hotkey{Key: KeyR}

	sys.RefuseNext(hk)
	if err := h.Register(hk, func() {}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("first register err = %v, want ErrAlreadyRegistered", err)
	}
	if err := h.Register(hk, func() {}); err != nil {
		t.Fatalf("second register: %v", err)
	}
}
