// Package progress maps absolute scroll offsets to a normalized progress
// scalar for the continuous camera-dolly experience. Unlike the modal
// machine in internal/transition there is no cloud/site duality here, just
// one scrubbed scene with completion and reset callbacks.
package progress

import (
	"errors"

	"github.com/andyrewlee/nimbus/internal/logging"
	"github.com/andyrewlee/nimbus/internal/render"
)

// Config holds the per-controller tuning knobs. Immutable after New.
type Config struct {
	// ScrollDistance is the scroll offset mapped to progress 1.0. A zero
	// distance makes progress NaN rather than panicking; config
	// validation keeps that out of production (see config.Validate).
	ScrollDistance float64
	// ResetThreshold is the offset below which a completed run resets.
	ResetThreshold float64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{ScrollDistance: 600, ResetThreshold: 50}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.ScrollDistance < 0 {
		c.ScrollDistance = def.ScrollDistance
	}
	if c.ResetThreshold < 0 {
		c.ResetThreshold = 0
	}
	return c
}

// Controller owns the continuous progress value. All methods must be called
// from the UI event loop; the frame coalescing below assumes a single
// caller.
type Controller struct {
	cfg     Config
	adapter render.Adapter

	onComplete func()
	onReset    func()

	enabled   bool
	destroyed bool

	// ticking is set when offset events arrived since the last frame, so
	// a burst of N events collapses to one recomputation using the
	// latest offset.
	ticking  bool
	offset   float64
	progress float64
	complete bool
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithOnComplete registers the completion callback. Invoked exactly once
// each time progress reaches 1.0, until a reset re-arms it.
func WithOnComplete(fn func()) Option {
	return func(c *Controller) { c.onComplete = fn }
}

// WithOnReset registers the reset callback. Invoked exactly once each time
// a completed run returns below the reset threshold.
func WithOnReset(fn func()) Option {
	return func(c *Controller) { c.onReset = fn }
}

// New builds a controller bound to one renderer adapter. A nil adapter is a
// configuration error and fails construction.
func New(adapter render.Adapter, cfg Config, opts ...Option) (*Controller, error) {
	if adapter == nil {
		return nil, errors.New("progress: renderer adapter is required")
	}
	c := &Controller{cfg: cfg.normalized(), adapter: adapter}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Enable starts accepting offset events. Enabling twice warns and no-ops.
func (c *Controller) Enable() {
	if c.destroyed {
		return
	}
	if c.enabled {
		logging.Warn("progress: controller already enabled")
		return
	}
	c.enabled = true
}

// Disable stops accepting offset events and drops any pending frame work.
// Disabling when not enabled is a no-op.
func (c *Controller) Disable() {
	if !c.enabled {
		return
	}
	c.enabled = false
	c.ticking = false
}

// Enabled reports whether the controller is accepting offset events.
func (c *Controller) Enabled() bool { return c.enabled }

// SetOffset records the latest absolute scroll offset. The recomputation is
// deferred to the next frame; any number of calls between frames costs one
// recomputation. Negative offsets are clamped to zero since they originate
// from uncontrolled input data.
func (c *Controller) SetOffset(offset float64) {
	if !c.enabled || c.destroyed {
		return
	}
	if offset < 0 {
		offset = 0
	}
	c.offset = offset
	c.ticking = true
}

// FrameDue reports whether a recomputation is pending for the next frame.
func (c *Controller) FrameDue() bool { return c.ticking }

// OnFrame runs the pending recomputation, if any. Call once per rendered
// frame. The adapter always sees the most recent offset, never a stale
// intermediate one.
func (c *Controller) OnFrame() {
	if !c.ticking || c.destroyed {
		return
	}
	c.ticking = false
	c.recompute()
}

// SetProgress is the programmatic override (e.g. a skip control). It clamps
// to [0,1], recomputes immediately, and fires completion/reset callbacks
// under the same rules as scrolled input. Unlike SetOffset it does not
// require Enable: skip controls work even while the scroll listener is
// detached.
func (c *Controller) SetProgress(p float64) {
	if c.destroyed {
		return
	}
	p = clamp01(p)
	c.offset = p * c.cfg.ScrollDistance
	c.ticking = false
	c.recompute()
}

// Progress returns the last computed progress value.
func (c *Controller) Progress() float64 { return c.progress }

// IsComplete reports whether the last computed progress reached 1.0 and no
// reset has happened since.
func (c *Controller) IsComplete() bool { return c.complete }

// Destroy tears the controller down: no further state mutation occurs.
// Mutating calls after Destroy are no-ops.
func (c *Controller) Destroy() {
	c.destroyed = true
	c.enabled = false
	c.ticking = false
}

func (c *Controller) recompute() {
	// Division by a zero ScrollDistance propagates NaN by documented
	// choice; clamp01 passes NaN through and the completion comparison
	// below stays false.
	p := clamp01(c.offset / c.cfg.ScrollDistance)
	c.progress = p
	c.updateAdapter(p)

	if p >= 1 && !c.complete {
		c.complete = true
		c.fire(c.onComplete, "completion callback")
	}

	if c.complete && c.offset < c.cfg.ResetThreshold {
		c.complete = false
		c.progress = 0
		c.resetAdapter()
		c.fire(c.onReset, "reset callback")
	}
}

func (c *Controller) updateAdapter(p float64) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("renderer scroll update failed: %v", r)
		}
	}()
	c.adapter.UpdateScroll(p)
}

func (c *Controller) resetAdapter() {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("renderer reset failed: %v", r)
		}
	}()
	c.adapter.Reset()
}

func (c *Controller) fire(fn func(), what string) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logging.Error("%s panicked: %v", what, r)
		}
	}()
	fn()
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		// NaN lands here and propagates.
		return p
	}
}
