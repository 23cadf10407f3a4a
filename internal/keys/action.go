// internal/keys/action.go
package keys

import (
	"fmt"
	"strings"
)

// Action is one host keystroke from a closed set.
type Action uint8

const (
	None Action = iota
	Space
	Enter
	Escape
	Up
	Down
	Left
	Right
	LetterA
	LetterZ = LetterA + 25
)

// Letter returns the action for an ASCII letter (either case).
func Letter(c rune) (Action, bool) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return None, false
	}
	return LetterA + Action(c-'A'), true
}

type special struct {
	name  string
	usage byte // USB HID usage ID (keyboard page)
	code  int  // Linux input event code
}

var specials = map[Action]special{
	Space:  {"space", 0x2C, 57},
	Enter:  {"enter", 0x28, 28},
	Escape: {"escape", 0x29, 1},
	Up:     {"up", 0x52, 103},
	Down:   {"down", 0x51, 108},
	Left:   {"left", 0x50, 105},
	Right:  {"right", 0x4F, 106},
}

// Linux KEY_A..KEY_Z follow the QWERTY layout, not the alphabet.
var letterCodes = [26]int{
	30, 48, 46, 32, 18, 33, 34, 35, 23, 36, 37, 38, 50,
	49, 24, 25, 16, 19, 31, 20, 22, 47, 17, 45, 21, 44,
}

func (a Action) isLetter() bool {
	return a >= LetterA && a <= LetterZ
}

// Valid reports whether a is a real keystroke.
func (a Action) Valid() bool {
	_, ok := specials[a]
	return ok || a.isLetter()
}

func (a Action) String() string {
	if s, ok := specials[a]; ok {
		return s.name
	}
	if a.isLetter() {
		return string(rune('a' + int(a-LetterA)))
	}
	return "none"
}

// HIDUsage is the USB HID keyboard usage ID (boot protocol).
func (a Action) HIDUsage() byte {
	if s, ok := specials[a]; ok {
		return s.usage
	}
	if a.isLetter() {
		return 0x04 + byte(a-LetterA)
	}
	return 0
}

// LinuxCode is the KEY_* code from linux/input-event-codes.h.
func (a Action) LinuxCode() int {
	if s, ok := specials[a]; ok {
		return s.code
	}
	if a.isLetter() {
		return letterCodes[a-LetterA]
	}
	return 0
}

// ParseAction accepts a special key name or a single letter, case-insensitive.
func ParseAction(s string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))

	for a, sp := range specials {
		if sp.name == name {
			return a, nil
		}
	}
	if len(name) == 1 {
		if a, ok := Letter(rune(name[0])); ok {
			return a, nil
		}
	}
	return None, fmt.Errorf("keys: unknown action %q", s)
}
