package transition

import (
	"errors"
	"time"

	"github.com/andyrewlee/nimbus/internal/logging"
	"github.com/andyrewlee/nimbus/internal/render"
)

// Mode is the discrete phase of the landing experience.
type Mode int

const (
	// ModeCloud is the immersive intro. Initial state.
	ModeCloud Mode = iota
	// ModeTransitioning is the animated handoff. Always transient: it
	// resolves to ModeCloud or ModeSite, never rests.
	ModeTransitioning
	// ModeSite is the normal scrollable content.
	ModeSite
)

func (m Mode) String() string {
	switch m {
	case ModeCloud:
		return "cloud"
	case ModeTransitioning:
		return "transitioning"
	case ModeSite:
		return "site"
	default:
		return "unknown"
	}
}

// Direction records which way an in-flight transition is headed.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionCloudToSite
	DirectionSiteToCloud
)

func (d Direction) String() string {
	switch d {
	case DirectionCloudToSite:
		return "cloud→site"
	case DirectionSiteToCloud:
		return "site→cloud"
	default:
		return "none"
	}
}

// ReversalPolicy controls when accumulated forward distance is discarded.
type ReversalPolicy int

const (
	// ResetOnReversal clears the forward accumulator as soon as a single
	// upward delta arrives. A down-then-up wobble starts over.
	ResetOnReversal ReversalPolicy = iota
	// ResetOnPause keeps accumulated distance across direction wobble and
	// clears it only when the gesture pauses.
	ResetOnPause
)

// CompletionSource picks the single authority for resolving a transition in
// flight. Exactly one applies per machine; the two are never raced.
type CompletionSource int

const (
	// CompleteOnDeadline resolves TRANSITIONING once TransitionDuration
	// has elapsed since entry.
	CompleteOnDeadline CompletionSource = iota
	// CompleteOnAdapter resolves once the renderer adapter reports its
	// own progress reached 1.0.
	CompleteOnAdapter
)

// Config holds the per-machine tuning knobs. Immutable after New.
type Config struct {
	// ActivationThreshold is the accumulated forward gesture distance, in
	// scroll units, needed to leave ModeCloud.
	ActivationThreshold float64
	// StaggerDelay is how long a continuous backward gesture must be held
	// at the top of the site before the machine returns to the cloud.
	StaggerDelay time.Duration
	// TransitionDuration is the time budget for the TRANSITIONING visual.
	TransitionDuration time.Duration
	// GesturePause is the silence after which a gesture no longer counts
	// as continuous.
	GesturePause time.Duration

	ReversalReset ReversalPolicy
	Completion    CompletionSource
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		ActivationThreshold: 150,
		StaggerDelay:        300 * time.Millisecond,
		TransitionDuration:  600 * time.Millisecond,
		GesturePause:        250 * time.Millisecond,
	}
}

// normalized falls back to defaults for non-positive values. Bad numbers
// come from user config files and are not worth failing over.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.ActivationThreshold <= 0 {
		c.ActivationThreshold = def.ActivationThreshold
	}
	if c.StaggerDelay <= 0 {
		c.StaggerDelay = def.StaggerDelay
	}
	if c.TransitionDuration <= 0 {
		c.TransitionDuration = def.TransitionDuration
	}
	if c.GesturePause <= 0 {
		c.GesturePause = def.GesturePause
	}
	return c
}

// Observer is notified after a mode change has committed. Observers run in
// registration order on the event loop; a panicking observer is logged and
// does not block the others or the transition.
type Observer func(from, to Mode, dir Direction)

// Machine owns the discrete mode and the gesture bookkeeping that moves it.
// It is single-threaded by design: Feed and Tick must be called from the UI
// event loop, which also serializes concurrent input modalities.
type Machine struct {
	cfg     Config
	adapter render.Adapter
	now     func() time.Time

	mode Mode
	dir  Direction

	forward      float64
	staggerOn    bool
	staggerStart time.Time
	lastEvent    time.Time
	deadline     time.Time

	observers []Observer
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithInitialMode starts the machine somewhere other than ModeCloud. Used
// when the renderer is unavailable and the experience boots straight into
// the site.
func WithInitialMode(mode Mode) Option {
	return func(m *Machine) {
		if mode == ModeCloud || mode == ModeSite {
			m.mode = mode
		}
	}
}

// New builds a machine bound to one renderer adapter. A nil adapter is a
// configuration error and fails construction.
func New(adapter render.Adapter, cfg Config, opts ...Option) (*Machine, error) {
	if adapter == nil {
		return nil, errors.New("transition: renderer adapter is required")
	}
	m := &Machine{
		cfg:     cfg.normalized(),
		adapter: adapter,
		now:     time.Now,
		mode:    ModeCloud,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Direction returns the in-flight transition direction, DirectionNone when
// no transition is in flight.
func (m *Machine) Direction() Direction { return m.dir }

// Subscribe registers an observer for mode changes.
func (m *Machine) Subscribe(fn Observer) {
	if fn != nil {
		m.observers = append(m.observers, fn)
	}
}

// Feed ingests one coalesced gesture delta. Positive deltas scroll toward
// the site, negative deltas scroll back toward the cloud. atTop reports
// whether the site content sat at scroll offset zero when the event fired.
func (m *Machine) Feed(delta float64, atTop bool) {
	now := m.now()
	gap := now.Sub(m.lastEvent)
	fresh := m.lastEvent.IsZero()
	m.lastEvent = now

	// Input during an in-flight transition never schedules another one.
	if m.mode == ModeTransitioning {
		return
	}

	// A pause ends the continuous gesture: both the forward accumulator
	// and the stagger timer start over.
	if !fresh && gap > m.cfg.GesturePause {
		m.forward = 0
		m.clearStagger()
	}

	switch m.mode {
	case ModeCloud:
		m.feedCloud(delta)
	case ModeSite:
		m.feedSite(delta, atTop, now)
	}
}

func (m *Machine) feedCloud(delta float64) {
	if delta < 0 {
		if m.cfg.ReversalReset == ResetOnReversal {
			m.forward = 0
		}
		return
	}
	m.forward += delta
	if m.forward >= m.cfg.ActivationThreshold {
		m.begin(DirectionCloudToSite)
	}
}

func (m *Machine) feedSite(delta float64, atTop bool, now time.Time) {
	if delta >= 0 || !atTop {
		// The qualifying condition lapsed. Reaching StaggerDelay-1ms and
		// then reversing must not transition.
		m.clearStagger()
		return
	}
	if !m.staggerOn {
		m.staggerOn = true
		m.staggerStart = now
		return
	}
	if now.Sub(m.staggerStart) >= m.cfg.StaggerDelay {
		m.begin(DirectionSiteToCloud)
	}
}

// Tick advances the time-based rules. Call once per rendered frame. The
// stagger delay and transition deadline are wall-clock comparisons made
// here and in Feed, never ad-hoc timers, so rapid re-entry cannot orphan or
// duplicate a pending transition.
func (m *Machine) Tick() {
	now := m.now()

	if m.mode == ModeTransitioning {
		if m.transitionDone(now) {
			m.resolve()
		}
		return
	}

	stalled := !m.lastEvent.IsZero() && now.Sub(m.lastEvent) > m.cfg.GesturePause

	if m.staggerOn {
		switch {
		case stalled:
			m.clearStagger()
		case now.Sub(m.staggerStart) >= m.cfg.StaggerDelay:
			m.begin(DirectionSiteToCloud)
			return
		}
	}

	if m.forward > 0 && stalled {
		m.forward = 0
	}
}

// Skip forces the cloud→site transition, bypassing the threshold. No-op
// outside ModeCloud.
func (m *Machine) Skip() {
	if m.mode == ModeCloud {
		m.begin(DirectionCloudToSite)
	}
}

// ForwardProgress reports accumulated forward distance against the
// activation threshold in [0,1], for pre-transition visual feedback.
func (m *Machine) ForwardProgress() float64 {
	p := m.forward / m.cfg.ActivationThreshold
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// TransitionProgress reports how far the in-flight transition has advanced
// in [0,1]. Zero when no transition is in flight.
func (m *Machine) TransitionProgress() float64 {
	if m.mode != ModeTransitioning || m.deadline.IsZero() {
		return 0
	}
	remaining := m.deadline.Sub(m.now())
	p := 1 - float64(remaining)/float64(m.cfg.TransitionDuration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// StaggerElapsed reports how long the qualifying backward gesture has been
// held. Zero when no stagger timer is running.
func (m *Machine) StaggerElapsed() time.Duration {
	if !m.staggerOn {
		return 0
	}
	return m.now().Sub(m.staggerStart)
}

func (m *Machine) clearStagger() {
	m.staggerOn = false
	m.staggerStart = time.Time{}
}

// begin enters TRANSITIONING. The accumulator and stagger timer both reset
// so that re-entry into either stable mode starts clean, and the guard at
// the top makes a second qualifying trigger within one gesture a no-op.
func (m *Machine) begin(dir Direction) {
	if m.mode == ModeTransitioning {
		return
	}
	from := m.mode
	m.mode = ModeTransitioning
	m.dir = dir
	m.forward = 0
	m.clearStagger()
	m.deadline = m.now().Add(m.cfg.TransitionDuration)
	logging.Debug("transition begin: %s (%s)", dir, from)
	m.notify(from, ModeTransitioning, dir)
}

// resolve lands the in-flight transition on its destination mode. Machine
// state commits before any adapter call, so a failing renderer cannot block
// or roll back the mode change.
func (m *Machine) resolve() {
	if m.mode != ModeTransitioning {
		return
	}
	to := ModeSite
	if m.dir == DirectionSiteToCloud {
		to = ModeCloud
	}
	dir := m.dir
	m.mode = to
	m.dir = DirectionNone
	m.deadline = time.Time{}
	m.lastEvent = time.Time{}

	if to == ModeCloud {
		m.resetAdapter()
	}
	logging.Debug("transition resolved: %s", to)
	m.notify(ModeTransitioning, to, dir)
}

func (m *Machine) transitionDone(now time.Time) bool {
	if m.cfg.Completion == CompleteOnAdapter {
		return m.adapterComplete()
	}
	return !m.deadline.IsZero() && !now.Before(m.deadline)
}

func (m *Machine) resetAdapter() {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("renderer reset failed: %v", r)
		}
	}()
	m.adapter.Reset()
}

func (m *Machine) adapterComplete() (done bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("renderer completion check failed: %v", r)
			// A broken renderer must not wedge navigation.
			done = true
		}
	}()
	return m.adapter.IsComplete()
}

func (m *Machine) notify(from, to Mode, dir Direction) {
	for _, fn := range m.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Error("mode observer panicked: %v", r)
				}
			}()
			fn(from, to, dir)
		}()
	}
}
