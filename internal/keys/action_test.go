// internal/keys/action_test.go
package keys

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/keygate/internal/keys/hidg"
	"github.com/tamzrod/keygate/internal/keys/serialbridge"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		in   string
		want Action
	}{
		{"space", Space},
		{"SPACE", Space},
		{" right ", Right},
		{"left", Left},
		{"p", LetterA + 15},
		{"P", LetterA + 15},
		{"a", LetterA},
		{"z", LetterZ},
	}
	for _, c := range cases {
		got, err := ParseAction(c.in)
		if err != nil {
			t.Fatalf("ParseAction(%q) err=%v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseAction(%q)=%v want %v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "pp", "f13", "1", "none"} {
		if _, err := ParseAction(bad); err == nil {
			t.Fatalf("ParseAction(%q): expected error", bad)
		}
	}
}

func TestCodes(t *testing.T) {
	p, _ := Letter('p')
	cases := []struct {
		a     Action
		usage byte
		code  int
		name  string
	}{
		{Space, 0x2C, 57, "space"},
		{Right, 0x4F, 106, "right"},
		{Left, 0x50, 105, "left"},
		{p, 0x13, 25, "p"},
		{LetterA, 0x04, 30, "a"},
		{LetterZ, 0x1D, 44, "z"},
	}
	for _, c := range cases {
		if c.a.HIDUsage() != c.usage {
			t.Fatalf("%s: usage 0x%02x want 0x%02x", c.name, c.a.HIDUsage(), c.usage)
		}
		if c.a.LinuxCode() != c.code {
			t.Fatalf("%s: code %d want %d", c.name, c.a.LinuxCode(), c.code)
		}
		if c.a.String() != c.name {
			t.Fatalf("String()=%q want %q", c.a.String(), c.name)
		}
	}

	if None.Valid() || None.HIDUsage() != 0 || None.LinuxCode() != 0 {
		t.Fatalf("None must not map to a key")
	}
}

// ---- driver adapters ----

type bufCloser struct {
	bytes.Buffer
	failWrite bool
}

func (b *bufCloser) Write(p []byte) (int, error) {
	if b.failWrite {
		return 0, errors.New("endpoint shutdown")
	}
	return b.Buffer.Write(p)
}

func (b *bufCloser) Close() error { return nil }

func TestHIDSink_WritesDownThenUpReports(t *testing.T) {
	buf := &bufCloser{}
	s := hidSink{p: hidg.New(buf, time.Millisecond)}

	if err := s.Emit(Space); err != nil {
		t.Fatalf("Emit err=%v", err)
	}

	want := []byte{
		0, 0, 0x2C, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("reports=%v want %v", buf.Bytes(), want)
	}
}

func TestHIDSink_WriteFailure(t *testing.T) {
	s := hidSink{p: hidg.New(&bufCloser{failWrite: true}, 0)}
	if err := s.Emit(Space); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

type rwBuf struct{ bytes.Buffer }

func (r *rwBuf) Close() error { return nil }

func TestNameSink_WritesKeyLine(t *testing.T) {
	buf := &rwBuf{}
	s := nameSink{p: serialbridge.New(buf)}

	if err := s.Emit(Right); err != nil {
		t.Fatalf("Emit err=%v", err)
	}
	if got := buf.String(); got != "KEY right\n" {
		t.Fatalf("line=%q", got)
	}
}

type fakeCodes struct{ codes []int }

func (f *fakeCodes) Press(code int) error {
	f.codes = append(f.codes, code)
	return nil
}

func TestLinuxSink_UsesKernelCodes(t *testing.T) {
	f := &fakeCodes{}
	s := linuxSink{p: f}

	_ = s.Emit(Space)
	_ = s.Emit(Left)

	if len(f.codes) != 2 || f.codes[0] != 57 || f.codes[1] != 105 {
		t.Fatalf("codes=%v", f.codes)
	}
}
