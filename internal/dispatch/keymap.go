// internal/dispatch/keymap.go
package dispatch

import (
	"fmt"

	cfg "github.com/tamzrod/keygate/internal/config"
	"github.com/tamzrod/keygate/internal/keys"
)

// Binding is what one button does: a keystroke, and optionally a spelled letter.
type Binding struct {
	Action keys.Action
	Letter rune // 0: silent
}

// Keymap holds bindings for buttons A, B, C, D in priority order.
type Keymap [4]Binding

// BuildKeymap resolves action names. With spell set, each button spells its own letter.
func BuildKeymap(k cfg.KeysConfig) (Keymap, error) {
	var km Keymap

	names := [4]string{k.Map.A, k.Map.B, k.Map.C, k.Map.D}
	letters := [4]rune{'A', 'B', 'C', 'D'}
	spell := k.Spell != nil && *k.Spell

	for i, name := range names {
		a, err := keys.ParseAction(name)
		if err != nil {
			return km, fmt.Errorf("dispatch: button %c: %w", letters[i], err)
		}
		km[i].Action = a
		if spell {
			km[i].Letter = letters[i]
		}
	}
	return km, nil
}
