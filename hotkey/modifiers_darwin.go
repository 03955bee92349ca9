//go:build darwin

package hotkey

import xhotkey "golang.design/x/hotkey"

var modifierMap = map[Modifiers]xhotkey.Modifier{
	ModCtrl:  xhotkey.ModCtrl,
	ModShift: xhotkey.ModShift,
	ModAlt:   xhotkey.ModOption,
	ModMeta:  xhotkey.ModCmd,
}
