// internal/keys/uinput/keyboard.go
package uinput

import (
	"fmt"
	"time"

	buinput "github.com/bendahl/uinput"
)

// Keyboard is a virtual keyboard registered with the kernel through /dev/uinput.
type Keyboard struct {
	kb   buinput.Keyboard
	hold time.Duration
}

// Open creates the virtual device. hold is the time between key down and key up.
func Open(path, name string, hold time.Duration) (*Keyboard, error) {
	kb, err := buinput.CreateKeyboard(path, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("uinput: create keyboard on %s: %w", path, err)
	}
	return &Keyboard{kb: kb, hold: hold}, nil
}

// Press sends key down, waits hold, sends key up.
func (k *Keyboard) Press(code int) error {
	if code == 0 {
		return fmt.Errorf("uinput: no key code")
	}
	if err := k.kb.KeyDown(code); err != nil {
		return fmt.Errorf("uinput: key down %d: %w", code, err)
	}
	time.Sleep(k.hold)
	if err := k.kb.KeyUp(code); err != nil {
		return fmt.Errorf("uinput: key up %d: %w", code, err)
	}
	return nil
}

func (k *Keyboard) Close() error {
	return k.kb.Close()
}
