// Package config decodes the [[commands]] binding file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"dispatch/hotkey"
)

// FileName is the binding file looked up under resources/.
const FileName = "dispatch.toml"

// Config is one parsed snapshot of the binding file. Commands keep
// declaration order.
type Config struct {
	Commands []Command
	// Undecoded lists keys present in the file but not part of the schema.
	Undecoded []string
}

// Command is one declared binding. A nil modifier flag means the modifier is
// not required; false behaves the same.
type Command struct {
	Alt     *bool
	Meta    *bool
	Shift   *bool
	Control *bool
	Hotkey  string
	Script  string
}

type rawFile struct {
	Commands []rawCommand `toml:"commands"`
}

type rawCommand struct {
	Alt     *bool   `toml:"alt"`
	Meta    *bool   `toml:"meta"`
	Shift   *bool   `toml:"shift"`
	Control *bool   `toml:"control"`
	Hotkey  *string `toml:"hotkey"`
	Script  *string `toml:"script"`
}

// Load reads and decodes the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML data. source names the data in errors.
func Parse(data []byte, source string) (Config, error) {
	var raw rawFile
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var tomlErr toml.ParseError
		if errors.As(err, &tomlErr) {
			perr.Line = tomlErr.Position.Line
			perr.Message = tomlErr.Message
		}
		return Config{}, perr
	}

	cfg := Config{Commands: make([]Command, 0, len(raw.Commands))}
	for i, rc := range raw.Commands {
		switch {
		case rc.Hotkey == nil:
			return Config{}, &ParseError{Path: source, Message: fmt.Sprintf("commands[%d]: missing field `hotkey`", i)}
		case rc.Script == nil:
			return Config{}, &ParseError{Path: source, Message: fmt.Sprintf("commands[%d]: missing field `script`", i)}
		}
		cfg.Commands = append(cfg.Commands, Command{
			Alt:     rc.Alt,
			Meta:    rc.Meta,
			Shift:   rc.Shift,
			Control: rc.Control,
			Hotkey:  *rc.Hotkey,
			Script:  *rc.Script,
		})
	}
	for _, key := range md.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, key.String())
	}
	return cfg, nil
}

// Modifiers returns the modifiers this command requires.
func (c Command) Modifiers() hotkey.Modifiers {
	var m hotkey.Modifiers
	if isSet(c.Alt) {
		m |= hotkey.ModAlt
	}
	if isSet(c.Meta) {
		m |= hotkey.ModMeta
	}
	if isSet(c.Shift) {
		m |= hotkey.ModShift
	}
	if isSet(c.Control) {
		m |= hotkey.ModCtrl
	}
	return m
}

// AsHotkey converts the command to its registration identity. An unknown key
// identifier yields a *hotkey.KeyMappingError.
func (c Command) AsHotkey() (hotkey.Hotkey, error) {
	key, err := hotkey.ParseKey(c.Hotkey)
	if err != nil {
		return hotkey.Hotkey{}, err
	}
	return hotkey.Hotkey{Key: key, Mods: c.Modifiers()}, nil
}

func isSet(p *bool) bool {
	return p != nil && *p
}
