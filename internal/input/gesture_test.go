package input

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/nimbus/internal/config"
	"github.com/andyrewlee/nimbus/internal/keymap"
)

func newTranslator() *Translator {
	return NewTranslator(keymap.New(config.KeyMapConfig{}), DefaultSteps())
}

func TestWheelTranslation(t *testing.T) {
	tr := newTranslator()

	delta, ok := tr.Wheel(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if !ok || delta != 48 {
		t.Fatalf("wheel down: expected (48, true), got (%v, %v)", delta, ok)
	}

	delta, ok = tr.Wheel(tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	if !ok || delta != -48 {
		t.Fatalf("wheel up: expected (-48, true), got (%v, %v)", delta, ok)
	}

	if _, ok := tr.Wheel(tea.MouseWheelMsg{Button: tea.MouseWheelLeft}); ok {
		t.Fatal("horizontal wheel must not translate")
	}
}

func TestKeyTranslation(t *testing.T) {
	tr := newTranslator()

	cases := []struct {
		name string
		msg  tea.KeyPressMsg
		want float64
	}{
		{"line down", tea.KeyPressMsg{Code: 'j', Text: "j"}, 60},
		{"line up", tea.KeyPressMsg{Code: 'k', Text: "k"}, -60},
		{"page down", tea.KeyPressMsg{Code: tea.KeyPgDown}, 240},
		{"page up", tea.KeyPressMsg{Code: tea.KeyPgUp}, -240},
	}
	for _, tc := range cases {
		delta, ok := tr.Key(tc.msg)
		if !ok || delta != tc.want {
			t.Fatalf("%s: expected (%v, true), got (%v, %v)", tc.name, tc.want, delta, ok)
		}
	}

	if _, ok := tr.Key(tea.KeyPressMsg{Code: 'x', Text: "x"}); ok {
		t.Fatal("non-scroll key must not translate")
	}
}

func TestStepsDefaulting(t *testing.T) {
	tr := NewTranslator(keymap.New(config.KeyMapConfig{}), Steps{})
	delta, ok := tr.Wheel(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if !ok || delta != DefaultSteps().Wheel {
		t.Fatalf("expected default wheel step, got %v", delta)
	}
}

func TestCoalescerBatchesDeltas(t *testing.T) {
	var c Coalescer

	if _, ok := c.Take(); ok {
		t.Fatal("empty coalescer must report nothing")
	}

	c.Add(48)
	c.Add(48)
	c.Add(-60)
	delta, ok := c.Take()
	if !ok || delta != 36 {
		t.Fatalf("expected (36, true), got (%v, %v)", delta, ok)
	}

	if _, ok := c.Take(); ok {
		t.Fatal("take must clear pending state")
	}
}

func TestCoalescerZeroSumStillDirty(t *testing.T) {
	var c Coalescer
	c.Add(48)
	c.Add(-48)

	if !c.Dirty() {
		t.Fatal("expected dirty after activity")
	}
	delta, ok := c.Take()
	if !ok || delta != 0 {
		t.Fatalf("expected (0, true) for cancelled activity, got (%v, %v)", delta, ok)
	}
}
