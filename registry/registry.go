// Package registry turns a parsed config into live hotkey registrations.
package registry

import (
	"fmt"
	"sync"

	"dispatch/config"
	"dispatch/hotkey"
	"dispatch/shutdown"
)

// Dispatcher runs a triggered script. Execute is called from hook delivery
// goroutines and must return without waiting for the script.
type Dispatcher interface {
	Execute(script string)
}

// Binding is one hotkey mapped to the script it triggers. Index is the
// position of the command that supplied the script.
type Binding struct {
	Hotkey hotkey.Hotkey
	Script string
	Index  int
}

// Skipped is a command left without a live registration: its key did not
// map, or the OS refused the combination.
type Skipped struct {
	Index int
	Key   string
	Err   error
}

// Plan is the ordered set of bindings derived from one config.
type Plan struct {
	Bindings []Binding
	Skipped  []Skipped
}

// Prepare converts commands into bindings without touching the OS. Bindings
// keep the position of their first declaration; a later command with the
// same hotkey replaces the script.
func Prepare(cfg config.Config) Plan {
	var plan Plan
	index := make(map[hotkey.Hotkey]int)
	for i, cmd := range cfg.Commands {
		hk, err := cmd.AsHotkey()
		if err != nil {
			plan.Skipped = append(plan.Skipped, Skipped{Index: i, Key: cmd.Hotkey, Err: err})
			continue
		}
		if j, ok := index[hk]; ok {
			plan.Bindings[j].Script = cmd.Script
			plan.Bindings[j].Index = i
			continue
		}
		index[hk] = len(plan.Bindings)
		plan.Bindings = append(plan.Bindings, Binding{Hotkey: hk, Script: cmd.Script, Index: i})
	}
	return plan
}

type Options struct {
	NewHook    hotkey.NewHookFunc
	Dispatcher Dispatcher
	Signal     *shutdown.Signal
}

// Registry owns one hook and every registration made on it.
type Registry struct {
	hook    hotkey.Hook
	plan    Plan
	order   []hotkey.Hotkey
	scripts map[hotkey.Hotkey]string
	skipped []Skipped

	closeOnce sync.Once
	closeErr  error
}

// Build opens a hook and registers cfg on it, followed by the reserved
// termination hotkey.
func Build(cfg config.Config, opts Options) (*Registry, error) {
	hook, err := opts.NewHook()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHookUnavailable, err)
	}
	return register(hook, Prepare(cfg), opts)
}

// register fills hook from plan. A binding the OS refuses is skipped; only
// the reserved hotkey failing aborts, in which case the hook is closed.
func register(hook hotkey.Hook, plan Plan, opts Options) (*Registry, error) {
	r := &Registry{
		hook:    hook,
		plan:    plan,
		scripts: make(map[hotkey.Hotkey]string, len(plan.Bindings)),
		skipped: append([]Skipped(nil), plan.Skipped...),
	}

	for _, b := range plan.Bindings {
		script := b.Script
		err := hook.Register(b.Hotkey, func() { opts.Dispatcher.Execute(script) })
		if err != nil {
			r.skipped = append(r.skipped, Skipped{
				Index: b.Index,
				Key:   b.Hotkey.String(),
				Err:   fmt.Errorf("%w: %s: %w", ErrRegister, b.Hotkey, err),
			})
			continue
		}
		r.order = append(r.order, b.Hotkey)
		r.scripts[b.Hotkey] = script
	}

	// The reserved combination always stops the daemon, even if a user
	// binding claimed it above.
	hook.Unregister(hotkey.Reserved)
	if _, ok := r.scripts[hotkey.Reserved]; ok {
		delete(r.scripts, hotkey.Reserved)
		r.order = without(r.order, hotkey.Reserved)
	}
	if err := hook.Register(hotkey.Reserved, func() { opts.Signal.Set() }); err != nil {
		hook.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrReserved, hotkey.Reserved, err)
	}
	r.order = append(r.order, hotkey.Reserved)
	return r, nil
}

func without(hks []hotkey.Hotkey, drop hotkey.Hotkey) []hotkey.Hotkey {
	out := hks[:0]
	for _, hk := range hks {
		if hk != drop {
			out = append(out, hk)
		}
	}
	return out
}

// Hotkeys returns the registered combinations in registration order. The
// reserved hotkey is last.
func (r *Registry) Hotkeys() []hotkey.Hotkey {
	return append([]hotkey.Hotkey(nil), r.order...)
}

func (r *Registry) Len() int {
	return len(r.order)
}

// Skipped lists commands with no live registration: unknown keys first, then
// combinations the OS refused.
func (r *Registry) Skipped() []Skipped {
	return r.skipped
}

// Script returns the script bound to hk. The reserved hotkey has none.
func (r *Registry) Script(hk hotkey.Hotkey) (string, bool) {
	s, ok := r.scripts[hk]
	return s, ok
}

// Close unregisters every hotkey and releases the hook. It is safe to call
// more than once.
func (r *Registry) Close() error {
	r.closeOnce.Do(func() {
		for _, hk := range r.order {
			r.hook.Unregister(hk)
		}
		r.closeErr = r.hook.Close()
	})
	return r.closeErr
}

// Bindings returns the user bindings that were registered, without the
// reserved hotkey.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, 0, len(r.order))
	for _, hk := range r.order {
		if s, ok := r.scripts[hk]; ok {
			out = append(out, Binding{Hotkey: hk, Script: s, Index: r.indexOf(hk)})
		}
	}
	return out
}

func (r *Registry) indexOf(hk hotkey.Hotkey) int {
	for _, b := range r.plan.Bindings {
		if b.Hotkey == hk {
			return b.Index
		}
	}
	return -1
}

// Matches reports whether plan maps the same hotkeys to the same scripts as
// the plan r was built from. Refused combinations are not retried until the
// plan changes.
func (r *Registry) Matches(plan Plan) bool {
	if len(plan.Bindings) != len(r.plan.Bindings) {
		return false
	}
	for i, b := range plan.Bindings {
		have := r.plan.Bindings[i]
		if b.Hotkey != have.Hotkey || b.Script != have.Script {
			return false
		}
	}
	return true
}
