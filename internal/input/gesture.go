// Package input translates terminal events into signed scroll deltas and
// batches them per frame. Wheel notches, arrow keys, and page keys all end
// up in the same unit space so the transition machine and the progress
// controller never care where a gesture came from.
package input

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/nimbus/internal/keymap"
)

// Steps maps each input source to scroll units. Positive is toward the site.
type Steps struct {
	Wheel float64
	Line  float64
	Page  float64
}

// DefaultSteps tunes one wheel notch slightly under a line key so trackpad
// bursts and deliberate keypresses feel comparable.
func DefaultSteps() Steps {
	return Steps{Wheel: 48, Line: 60, Page: 240}
}

// Translator turns key and wheel events into deltas.
type Translator struct {
	keys  keymap.KeyMap
	steps Steps
}

// NewTranslator builds a translator for the given keymap.
func NewTranslator(keys keymap.KeyMap, steps Steps) *Translator {
	if steps.Wheel <= 0 {
		steps.Wheel = DefaultSteps().Wheel
	}
	if steps.Line <= 0 {
		steps.Line = DefaultSteps().Line
	}
	if steps.Page <= 0 {
		steps.Page = DefaultSteps().Page
	}
	return &Translator{keys: keys, steps: steps}
}

// Wheel converts a mouse wheel event. ok is false for horizontal wheels and
// other buttons.
func (t *Translator) Wheel(msg tea.MouseWheelMsg) (delta float64, ok bool) {
	switch msg.Button {
	case tea.MouseWheelDown:
		return t.steps.Wheel, true
	case tea.MouseWheelUp:
		return -t.steps.Wheel, true
	default:
		return 0, false
	}
}

// Key converts a scroll keypress. ok is false for keys that are not scroll
// motions; the caller routes those elsewhere.
func (t *Translator) Key(msg tea.KeyPressMsg) (delta float64, ok bool) {
	switch {
	case key.Matches(msg, t.keys.ScrollDown):
		return t.steps.Line, true
	case key.Matches(msg, t.keys.ScrollUp):
		return -t.steps.Line, true
	case key.Matches(msg, t.keys.PageDown):
		return t.steps.Page, true
	case key.Matches(msg, t.keys.PageUp):
		return -t.steps.Page, true
	default:
		return 0, false
	}
}

// Coalescer accumulates deltas between frames so a burst of wheel events
// costs one state-machine feed, not dozens. Net movement is what matters:
// opposite deltas within a frame cancel.
type Coalescer struct {
	pending float64
	dirty   bool
}

// Add records a delta for the next frame.
func (c *Coalescer) Add(delta float64) {
	c.pending += delta
	c.dirty = true
}

// Dirty reports whether any delta arrived since the last Take.
func (c *Coalescer) Dirty() bool { return c.dirty }

// Take returns the accumulated delta and clears it. ok is false only when
// no events arrived since the last Take; events that summed to zero still
// report ok=true so pause tracking sees the activity.
func (c *Coalescer) Take() (delta float64, ok bool) {
	if !c.dirty {
		return 0, false
	}
	delta = c.pending
	c.pending = 0
	c.dirty = false
	return delta, true
}
