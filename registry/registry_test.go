package registry

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"dispatch/config"
	"dispatch/hotkey"
	"dispatch/shutdown"
)

type recorder struct {
	mu      sync.Mutex
	scripts []string
}

func (r *recorder) Execute(script string) {
	r.mu.Lock()
	r.scripts = append(r.scripts, script)
	r.mu.Unlock()
}

func (r *recorder) ran() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.scripts...)
}

func yes() *bool { b := true; return &b }

func cmd(key, script string) config.Command {
	return config.Command{Hotkey: key, Script: script}
}

type fixture struct {
	sys  *hotkey.FakeSystem
	rec  *recorder
	sig  *shutdown.Signal
	opts Options
}

func newFixture() *fixture {
	f := &fixture{
		sys: hotkey.NewFakeSystem(),
		rec: &recorder{},
		sig: shutdown.New(),
	}
	f.opts = Options{NewHook: f.sys.NewHook, Dispatcher: f.rec, Signal: f.sig}
	return f
}

var (
	keyQ = hotkey.Hotkey{Key: hotkey.KeyQ}
	keyW = hotkey.Hotkey{Key: hotkey.KeyW}
)

func TestPrepare(t *testing.T) {
	cfg := config.Config{Commands: []config.Command{
		cmd("Q", "echo A"),
		cmd("NotAKey", "nope"),
		cmd("W", "echo W"),
		cmd("q", "echo B"),
	}}
	plan := Prepare(cfg)

	want := []Binding{
		{Hotkey: keyQ, Script: "echo B", Index: 3},
		{Hotkey: keyW, Script: "echo W", Index: 2},
	}
	if !reflect.DeepEqual(plan.Bindings, want) {
		t.Errorf("Bindings = %+v, want %+v", plan.Bindings, want)
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Index != 1 {
		t.Fatalf("Skipped = %+v", plan.Skipped)
	}
	var kerr *hotkey.KeyMappingError
	if !errors.As(plan.Skipped[0].Err, &kerr) {
		t.Errorf("skip err = %v, want *KeyMappingError", plan.Skipped[0].Err)
	}
}

func TestBuildRegistersValidPlusReserved(t *testing.T) {
	f := newFixture()
	cfg := config.Config{Commands: []config.Command{
		cmd("A", "a"), cmd("F13", "x"), cmd("B", "b"),
		cmd("Hyper", "y"), {Hotkey: "C", Control: yes(), Script: "c"},
	}}
	r, err := Build(cfg, f.opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Len() != 4 || f.sys.Registered() != 4 {
		t.Errorf("Len = %d, Registered = %d, want 4", r.Len(), f.sys.Registered())
	}
	if n := len(r.Skipped()); n != 2 {
		t.Errorf("skipped %d, want 2", n)
	}
	hks := r.Hotkeys()
	if hks[len(hks)-1] != hotkey.Reserved {
		t.Errorf("last registered = %v, want reserved", hks[len(hks)-1])
	}
}

func TestBuildEmptyConfig(t *testing.T) {
	f := newFixture()
	r, err := Build(config.Config{}, f.opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if got := r.Hotkeys(); !reflect.DeepEqual(got, []hotkey.Hotkey{hotkey.Reserved}) {
		t.Errorf("Hotkeys = %v", got)
	}
}

func TestReservedOverridesUserBinding(t *testing.T) {
	f := newFixture()
	cfg := config.Config{Commands: []config.Command{{
		Hotkey: "E", Control: yes(), Shift: yes(), Alt: yes(), Script: "anything",
	}}}
	r, err := Build(cfg, f.opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if !f.sys.Press(hotkey.Reserved) {
		t.Fatal("reserved hotkey not handled")
	}
	if !f.sig.IsSet() {
		t.Error("termination signal not set")
	}
	if ran := f.rec.ran(); len(ran) != 0 {
		t.Errorf("ran %v, want nothing", ran)
	}
	if _, ok := r.Script(hotkey.Reserved); ok {
		t.Error("reserved hotkey should carry no script")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestDuplicateHotkeyLastWins(t *testing.T) {
	f := newFixture()
	cfg := config.Config{Commands: []config.Command{cmd("Q", "echo A"), cmd("Q", "echo B")}}
	r, err := Build(cfg, f.opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	f.sys.Press(keyQ)
	if ran := f.rec.ran(); !reflect.DeepEqual(ran, []string{"echo B"}) {
		t.Errorf("ran %v, want [echo B]", ran)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*hotkey.FakeSystem)
		want  error
	}{
		{"hook unavailable", func(s *hotkey.FakeSystem) { s.FailOpen(hotkey.ErrUnavailable) }, ErrHookUnavailable},
		{"reserved key taken", func(s *hotkey.FakeSystem) { s.Seize(hotkey.Reserved) }, ErrReserved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f.sys)
			_, err := Build(config.Config{Commands: []config.Command{cmd("Q", "q")}}, f.opts)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			// only the seized key, if any, may remain owned
			if n := f.sys.Registered(); n > 1 {
				t.Errorf("Registered = %d after failed build", n)
			}
		})
	}
}

func TestBuildSkipsRefusedBinding(t *testing.T) {
	f := newFixture()
	f.sys.Seize(keyQ)
	cfg := config.Config{Commands: []config.Command{
		cmd("NoSuchKey", "x"), cmd("Q", "echo q"), cmd("W", "echo w"),
	}}
	r, err := Build(cfg, f.opts)
	if err != nil {
		t.Fatalf("build failed on a refused user key: %v", err)
	}
	defer r.Close()

	if got := r.Hotkeys(); !reflect.DeepEqual(got, []hotkey.Hotkey{keyW, hotkey.Reserved}) {
		t.Errorf("Hotkeys = %v", got)
	}
	skipped := r.Skipped()
	if len(skipped) != 2 {
		t.Fatalf("Skipped = %+v, want 2 entries", skipped)
	}
	refused := skipped[1]
	if refused.Index != 1 || refused.Key != "Q" || !errors.Is(refused.Err, ErrRegister) {
		t.Errorf("refused = %+v", refused)
	}
	if !errors.Is(refused.Err, hotkey.ErrAlreadyRegistered) {
		t.Errorf("refused err = %v, want the OS cause wrapped", refused.Err)
	}

	f.sys.Press(keyW)
	if ran := f.rec.ran(); !reflect.DeepEqual(ran, []string{"echo w"}) {
		t.Errorf("ran %v, want [echo w]", ran)
	}
	f.sys.Press(hotkey.Reserved)
	if !f.sig.IsSet() {
		t.Error("reserved hotkey not live")
	}
}

func TestRegistryClose(t *testing.T) {
	f := newFixture()
	r, err := Build(config.Config{Commands: []config.Command{cmd("Q", "q")}}, f.opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if n := f.sys.Registered(); n != 0 {
		t.Errorf("Registered = %d after Close", n)
	}
	if f.sys.Press(keyQ) {
		t.Error("press handled after Close")
	}
}

func TestRegistryMatches(t *testing.T) {
	f := newFixture()
	cfg := config.Config{Commands: []config.Command{
		cmd("Q", "q"),
		{Hotkey: "E", Control: yes(), Shift: yes(), Alt: yes(), Script: "anything"},
	}}
	r, err := Build(cfg, f.opts)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if !r.Matches(Prepare(cfg)) {
		t.Error("registry should match the plan it was built from")
	}
	changed := config.Config{Commands: []config.Command{cmd("Q", "other")}}
	if r.Matches(Prepare(changed)) {
		t.Error("registry should not match a different script")
	}

	empty, err := Build(config.Config{}, Options{NewHook: hotkey.NewFakeSystem().NewHook, Dispatcher: f.rec, Signal: f.sig})
	if err != nil {
		t.Fatal(err)
	}
	defer empty.Close()
	if !empty.Matches(Prepare(config.Config{})) {
		t.Error("empty registry should match an empty plan")
	}
}
