package ui

import (
	"github.com/macropower/gridpick/pkg/keys"
)

// KeyBinds are the key bindings of the picker.
type KeyBinds struct {
	Quit    *keys.KeyBind `json:"quit,omitempty"    jsonschema:"title=Quit"`
	Cancel  *keys.KeyBind `json:"cancel,omitempty"  jsonschema:"title=Cancel"`
	Padding *keys.KeyBind `json:"padding,omitempty" jsonschema:"title=Toggle Padding"`
	Copy    *keys.KeyBind `json:"copy,omitempty"    jsonschema:"title=Copy Geometry"`
	Help    *keys.KeyBind `json:"help,omitempty"    jsonschema:"title=Toggle Help"`
}

// NewKeyBinds creates [KeyBinds] with the default bindings.
func NewKeyBinds() *KeyBinds {
	kb := &KeyBinds{}
	kb.EnsureDefaults()

	return kb
}

// EnsureDefaults fills unset bindings with their defaults.
func (kb *KeyBinds) EnsureDefaults() {
	keys.SetDefaultBind(&kb.Quit, keys.NewBind("quit",
		keys.New("q"),
		keys.New("ctrl+c", keys.Hidden()),
	))
	keys.SetDefaultBind(&kb.Cancel, keys.NewBind("cancel",
		keys.New("esc"),
	))
	keys.SetDefaultBind(&kb.Padding, keys.NewBind("toggle padding",
		keys.New("p"),
	))
	keys.SetDefaultBind(&kb.Copy, keys.NewBind("copy geometry",
		keys.New("y"),
	))
	keys.SetDefaultBind(&kb.Help, keys.NewBind("toggle help",
		keys.New("?"),
	))
}

// Validate returns an error if a key is bound to more than one action.
func (kb *KeyBinds) Validate() error {
	return keys.ValidateBinds(kb.all()...) //nolint:wrapcheck // Already descriptive.
}

func (kb *KeyBinds) all() []*keys.KeyBind {
	return []*keys.KeyBind{kb.Quit, kb.Cancel, kb.Padding, kb.Copy, kb.Help}
}
