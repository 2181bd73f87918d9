// Package keybind matches terminal key events against configurable key
// names such as "j", "ctrl+d" or "pgdn".
package keybind

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v3"
)

// Keybind is a set of keys that trigger one action.
type Keybind struct {
	keys []string
	desc string
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	var k Keybind
	for _, option := range options {
		option(&k)
	}
	return k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.SetKeys(keys...)
	}
}

// WithDesc sets a short description of the action.
func WithDesc(desc string) Option {
	return func(k *Keybind) {
		k.desc = desc
	}
}

func (k Keybind) Keys() []string {
	return k.keys
}

// SetKeys replaces the keys. Keys that do not parse are dropped.
func (k *Keybind) SetKeys(keys ...string) {
	k.keys = k.keys[:0:0]
	for _, key := range keys {
		if key = Normalize(key); key != "" {
			k.keys = append(k.keys, key)
		}
	}
}

func (k Keybind) Desc() string {
	return k.desc
}

// Enabled reports whether any key is bound.
func (k Keybind) Enabled() bool {
	return len(k.keys) > 0
}

// String joins the keys for display, e.g. "up/k".
func (k Keybind) String() string {
	var b strings.Builder
	for i, key := range k.keys {
		if i > 0 {
			b.WriteByte('/')
		}
		if key == " " {
			key = "space"
		}
		b.WriteString(key)
	}
	return b.String()
}

// MatchesKey reports whether the key name, as returned by [Name], is bound.
func (k Keybind) MatchesKey(key string) bool {
	return key != "" && slices.Contains(k.keys, key)
}

// Matches reports whether event triggers any of the keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	key := Name(event)
	return slices.ContainsFunc(keybinds, func(k Keybind) bool {
		return k.MatchesKey(key)
	})
}

// modifiers is a set of modifier keys. Names list them in bit order.
type modifiers uint8

const (
	modCtrl modifiers = 1 << iota
	modAlt
	modShift
	modMeta
)

var modifierNames = [...]struct {
	mod  modifiers
	name string
}{
	{modCtrl, "ctrl"},
	{modAlt, "alt"},
	{modShift, "shift"},
	{modMeta, "meta"},
}

// join renders the modifiers in front of primary, e.g. "ctrl+shift+tab".
func (m modifiers) join(primary string) string {
	if m == 0 {
		return primary
	}
	var b strings.Builder
	for _, n := range modifierNames {
		if m&n.mod != 0 {
			b.WriteString(n.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(primary)
	return b.String()
}

func parseModifier(name string) (modifiers, bool) {
	switch strings.ToLower(name) {
	case "ctrl", "control":
		return modCtrl, true
	case "alt":
		return modAlt, true
	case "shift":
		return modShift, true
	case "meta":
		return modMeta, true
	}
	return 0, false
}

// Key name aliases, lower case.
var aliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"pageup":   "pgup",
	"pagedown": "pgdn",
	"space":    " ",
}

// Normalize returns the canonical form of a key name, or "" if it does not
// name a key. Modifiers come first in ctrl, alt, shift, meta order; a
// single character keeps its case unless a modifier is present.
func Normalize(key string) string {
	var (
		mods    modifiers
		primary string
	)
	for _, part := range strings.Split(key, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if mod, ok := parseModifier(part); ok {
			mods |= mod
			continue
		}
		var extra modifiers
		primary, extra = parsePrimary(part)
		mods |= extra
	}
	if primary == "" {
		return ""
	}
	if mods != 0 && len([]rune(primary)) == 1 {
		primary = strings.ToLower(primary)
	}
	return mods.join(primary)
}

// parsePrimary resolves the non-modifier part of a key name, along with any
// modifier the name implies.
func parsePrimary(name string) (string, modifiers) {
	if inner, ok := strings.CutPrefix(name, "Rune["); ok && len(inner) > 1 {
		if r, ok := strings.CutSuffix(inner, "]"); ok {
			return r, 0
		}
	}
	if len([]rune(name)) == 1 {
		return name, 0
	}

	lower := strings.ToLower(name)
	if alias, ok := aliases[lower]; ok {
		return alias, 0
	}
	if lower == "backtab" {
		return "tab", modShift
	}
	if rest, ok := strings.CutPrefix(lower, "ctrl-"); ok && rest != "" {
		return rest, modCtrl
	}
	return lower, 0
}

// Names of the special keys [Name] reports.
var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "tab",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyDelete:     "delete",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyInsert:     "insert",
}

// Name returns the canonical name of the key pressed in event.
func Name(event *tcell.EventKey) string {
	if event == nil {
		return ""
	}

	key := event.Key()
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return modCtrl.join(string(rune('a' + (key - tcell.KeyCtrlA))))
	}

	primary, ok := keyNames[key]
	if !ok && key == tcell.KeyRune {
		primary = event.Str()
	}
	if primary == "" {
		return Normalize(event.Name())
	}

	var mods modifiers
	if key == tcell.KeyBacktab {
		mods = modShift
	}
	m := event.Modifiers()
	if m&tcell.ModCtrl != 0 {
		mods |= modCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= modAlt
	}
	if m&tcell.ModShift != 0 {
		mods |= modShift
	}
	if m&tcell.ModMeta != 0 {
		mods |= modMeta
	}
	return mods.join(primary)
}
