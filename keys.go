package glimpse

import "strings"

// Key is a key name understood by the Driver (robotgo naming).
type Key string

// Special key constants for use with Press and Hotkey.
const (
	Enter     Key = "enter"
	Escape    Key = "esc"
	Tab       Key = "tab"
	Backspace Key = "backspace"
	Up        Key = "up"
	Down      Key = "down"
	Left      Key = "left"
	Right     Key = "right"
	Home      Key = "home"
	End       Key = "end"
	PageUp    Key = "pageup"
	PageDown  Key = "pagedown"
	Space     Key = "space"
	Delete    Key = "delete"

	F1  Key = "f1"
	F2  Key = "f2"
	F3  Key = "f3"
	F4  Key = "f4"
	F5  Key = "f5"
	F6  Key = "f6"
	F7  Key = "f7"
	F8  Key = "f8"
	F9  Key = "f9"
	F10 Key = "f10"
	F11 Key = "f11"
	F12 Key = "f12"
)

// Modifier keys.
const (
	ModCtrl  Key = "ctrl"
	ModAlt   Key = "alt"
	ModShift Key = "shift"
	ModCmd   Key = "cmd"
)

// Char returns the key for a single printable character.
func Char(c byte) Key {
	return Key(strings.ToLower(string(c)))
}

// Combo is a key pressed while holding modifiers.
type Combo struct {
	Key  Key
	Mods []Key
}

// Chord returns key held with mods.
func Chord(key Key, mods ...Key) Combo {
	return Combo{Key: key, Mods: mods}
}

// Ctrl returns the combo for Ctrl+<char>.
func Ctrl(c byte) Combo {
	return Chord(Char(c), ModCtrl)
}

// Alt returns the combo for Alt+<key>.
func Alt(k Key) Combo {
	return Chord(k, ModAlt)
}

func (c Combo) String() string {
	parts := make([]string, 0, len(c.Mods)+1)
	for _, m := range c.Mods {
		parts = append(parts, string(m))
	}
	parts = append(parts, string(c.Key))
	return strings.Join(parts, "+")
}
