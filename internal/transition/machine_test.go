package transition

import (
	"testing"
	"time"
)

type fakeAdapter struct {
	progress        float64
	resets          int
	complete        bool
	panicOnReset    bool
	panicOnComplete bool
}

func (f *fakeAdapter) UpdateScroll(p float64) { f.progress = p }

func (f *fakeAdapter) IsComplete() bool {
	if f.panicOnComplete {
		panic("adapter: completion check failed")
	}
	return f.complete
}

func (f *fakeAdapter) Reset() {
	if f.panicOnReset {
		panic("adapter: missing visual resource")
	}
	f.resets++
}

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type modeChange struct {
	from, to Mode
	dir      Direction
}

func newMachine(t *testing.T, cfg Config, opts ...Option) (*Machine, *fakeAdapter, *fakeClock, *[]modeChange) {
	t.Helper()
	adapter := &fakeAdapter{}
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.now)}, opts...)
	m, err := New(adapter, cfg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var changes []modeChange
	m.Subscribe(func(from, to Mode, dir Direction) {
		changes = append(changes, modeChange{from, to, dir})
	})
	return m, adapter, clock, &changes
}

// driveToSite walks a fresh machine through cloud → transitioning → site.
func driveToSite(t *testing.T, m *Machine, clock *fakeClock) {
	t.Helper()
	m.Feed(200, true)
	if m.Mode() != ModeTransitioning {
		t.Fatalf("expected transitioning after threshold, got %s", m.Mode())
	}
	clock.advance(DefaultConfig().TransitionDuration)
	m.Tick()
	if m.Mode() != ModeSite {
		t.Fatalf("expected site after transition duration, got %s", m.Mode())
	}
}

func TestNewRequiresAdapter(t *testing.T) {
	if _, err := New(nil, DefaultConfig()); err == nil {
		t.Fatal("expected error for nil adapter")
	}
}

func TestInitialModeIsCloud(t *testing.T) {
	m, _, _, _ := newMachine(t, DefaultConfig())
	if m.Mode() != ModeCloud {
		t.Fatalf("expected cloud, got %s", m.Mode())
	}
}

func TestWithInitialModeSite(t *testing.T) {
	m, _, _, _ := newMachine(t, DefaultConfig(), WithInitialMode(ModeSite))
	if m.Mode() != ModeSite {
		t.Fatalf("expected site, got %s", m.Mode())
	}
}

func TestForwardThresholdBoundary(t *testing.T) {
	t.Run("below threshold stays in cloud", func(t *testing.T) {
		m, _, clock, _ := newMachine(t, DefaultConfig())
		m.Feed(60, true)
		clock.advance(50 * time.Millisecond)
		m.Feed(60, true)
		if m.Mode() != ModeCloud {
			t.Fatalf("sum 120 < 150 must not transition, got %s", m.Mode())
		}
	})

	t.Run("exact threshold transitions", func(t *testing.T) {
		m, _, clock, changes := newMachine(t, DefaultConfig())
		m.Feed(60, true)
		clock.advance(50 * time.Millisecond)
		m.Feed(60, true)
		clock.advance(50 * time.Millisecond)
		m.Feed(30, true)
		if m.Mode() != ModeTransitioning {
			t.Fatalf("sum exactly 150 must transition, got %s", m.Mode())
		}
		want := modeChange{ModeCloud, ModeTransitioning, DirectionCloudToSite}
		if len(*changes) != 1 || (*changes)[0] != want {
			t.Fatalf("unexpected changes: %v", *changes)
		}
	})
}

func TestThreeWheelDeltas(t *testing.T) {
	// 60+60+60 = 180 >= 150
	m, _, clock, _ := newMachine(t, DefaultConfig())
	for i := 0; i < 3; i++ {
		m.Feed(60, true)
		clock.advance(30 * time.Millisecond)
	}
	if m.Mode() != ModeTransitioning {
		t.Fatalf("expected transitioning, got %s", m.Mode())
	}
}

func TestSingleLargeDeltaFiresOnce(t *testing.T) {
	m, _, _, changes := newMachine(t, DefaultConfig())
	m.Feed(500, true)
	m.Feed(500, true)
	if len(*changes) != 1 {
		t.Fatalf("expected exactly one transition, got %d", len(*changes))
	}
}

func TestReversalResetsAccumulator(t *testing.T) {
	m, _, clock, _ := newMachine(t, DefaultConfig())
	m.Feed(100, true)
	clock.advance(50 * time.Millisecond)
	m.Feed(-10, true)
	clock.advance(50 * time.Millisecond)
	m.Feed(60, true)
	if m.Mode() != ModeCloud {
		t.Fatalf("reversal must discard partial progress, got %s", m.Mode())
	}
	clock.advance(50 * time.Millisecond)
	m.Feed(90, true)
	if m.Mode() != ModeTransitioning {
		t.Fatalf("fresh 60+90 >= 150 must transition, got %s", m.Mode())
	}
}

func TestReversalKeptUnderPausePolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReversalReset = ResetOnPause
	m, _, clock, _ := newMachine(t, cfg)
	m.Feed(100, true)
	clock.advance(50 * time.Millisecond)
	m.Feed(-10, true)
	clock.advance(50 * time.Millisecond)
	m.Feed(60, true)
	if m.Mode() != ModeTransitioning {
		t.Fatalf("wobble must not discard progress under pause policy, got %s", m.Mode())
	}
}

func TestPauseResetsAccumulator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReversalReset = ResetOnPause
	m, _, clock, _ := newMachine(t, cfg)
	m.Feed(100, true)
	clock.advance(cfg.GesturePause + time.Millisecond)
	m.Feed(60, true)
	if m.Mode() != ModeCloud {
		t.Fatalf("paused gesture must start over, got %s", m.Mode())
	}
}

func TestTickPauseClearsAccumulator(t *testing.T) {
	m, _, clock, _ := newMachine(t, DefaultConfig())
	m.Feed(100, true)
	clock.advance(DefaultConfig().GesturePause + time.Millisecond)
	m.Tick()
	if got := m.ForwardProgress(); got != 0 {
		t.Fatalf("expected forward progress 0 after stalled tick, got %v", got)
	}
}

func TestStaggerHysteresis(t *testing.T) {
	t.Run("held 299ms then reversed never transitions", func(t *testing.T) {
		m, _, clock, _ := newMachine(t, DefaultConfig())
		driveToSite(t, m, clock)

		m.Feed(-1, true)
		for _, step := range []time.Duration{100, 100, 99} {
			clock.advance(step * time.Millisecond)
			m.Feed(-1, true)
		}
		if m.Mode() != ModeSite {
			t.Fatalf("299ms < 300ms must not transition, got %s", m.Mode())
		}
		m.Feed(1, true) // reversal discards the timer
		if got := m.StaggerElapsed(); got != 0 {
			t.Fatalf("expected stagger cleared, got %v", got)
		}
		if m.Mode() != ModeSite {
			t.Fatalf("expected site after reversal, got %s", m.Mode())
		}
	})

	t.Run("held 300ms uninterrupted transitions", func(t *testing.T) {
		m, _, clock, changes := newMachine(t, DefaultConfig())
		driveToSite(t, m, clock)

		m.Feed(-1, true)
		for i := 0; i < 3; i++ {
			clock.advance(100 * time.Millisecond)
			m.Feed(-1, true)
		}
		if m.Mode() != ModeTransitioning {
			t.Fatalf("300ms hold must transition, got %s", m.Mode())
		}
		last := (*changes)[len(*changes)-1]
		if last.dir != DirectionSiteToCloud {
			t.Fatalf("expected site→cloud direction, got %s", last.dir)
		}
	})

	t.Run("tick fires the transition between events", func(t *testing.T) {
		m, _, clock, _ := newMachine(t, DefaultConfig())
		driveToSite(t, m, clock)

		m.Feed(-1, true)
		clock.advance(200 * time.Millisecond)
		m.Feed(-1, true)
		clock.advance(110 * time.Millisecond)
		m.Tick() // 310ms since stagger start, last event 110ms ago
		if m.Mode() != ModeTransitioning {
			t.Fatalf("tick must honor the elapsed stagger delay, got %s", m.Mode())
		}
	})
}

func TestStaggerRequiresTop(t *testing.T) {
	m, _, clock, _ := newMachine(t, DefaultConfig())
	driveToSite(t, m, clock)

	m.Feed(-1, false)
	if got := m.StaggerElapsed(); got != 0 {
		t.Fatalf("stagger must not start away from top, got %v", got)
	}
}

func TestStaggerClearsOnPositionLoss(t *testing.T) {
	m, _, clock, _ := newMachine(t, DefaultConfig())
	driveToSite(t, m, clock)

	m.Feed(-1, true)
	clock.advance(100 * time.Millisecond)
	m.Feed(-1, false)
	if got := m.StaggerElapsed(); got != 0 {
		t.Fatalf("losing the top position must discard the timer, got %v", got)
	}
}

func TestStaggerClearsOnPause(t *testing.T) {
	m, _, clock, _ := newMachine(t, DefaultConfig())
	driveToSite(t, m, clock)

	m.Feed(-1, true)
	clock.advance(DefaultConfig().GesturePause + time.Millisecond)
	m.Tick()
	if got := m.StaggerElapsed(); got != 0 {
		t.Fatalf("stalled gesture must discard the timer, got %v", got)
	}
}

func TestTransitionResolvesAfterDuration(t *testing.T) {
	m, _, clock, _ := newMachine(t, DefaultConfig())
	m.Feed(200, true)

	clock.advance(599 * time.Millisecond)
	m.Tick()
	if m.Mode() != ModeTransitioning {
		t.Fatalf("599ms < 600ms must still be transitioning, got %s", m.Mode())
	}

	clock.advance(1 * time.Millisecond)
	m.Tick()
	if m.Mode() != ModeSite {
		t.Fatalf("expected site at the deadline, got %s", m.Mode())
	}
	if m.Direction() != DirectionNone {
		t.Fatalf("expected direction cleared, got %s", m.Direction())
	}
}

func TestInputIgnoredWhileTransitioning(t *testing.T) {
	m, _, clock, changes := newMachine(t, DefaultConfig())
	m.Feed(200, true)

	// Another full threshold-worth of input mid-flight.
	clock.advance(100 * time.Millisecond)
	m.Feed(200, true)
	m.Feed(-200, true)

	clock.advance(500 * time.Millisecond)
	m.Tick()
	if m.Mode() != ModeSite {
		t.Fatalf("expected site, got %s", m.Mode())
	}
	want := []modeChange{
		{ModeCloud, ModeTransitioning, DirectionCloudToSite},
		{ModeTransitioning, ModeSite, DirectionCloudToSite},
	}
	if len(*changes) != len(want) {
		t.Fatalf("expected %d changes, got %v", len(want), *changes)
	}
	for i, w := range want {
		if (*changes)[i] != w {
			t.Fatalf("change %d: expected %v, got %v", i, w, (*changes)[i])
		}
	}
}

func TestAdapterCompletionAuthority(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Completion = CompleteOnAdapter
	m, adapter, clock, _ := newMachine(t, cfg)
	m.Feed(200, true)

	// Deadline passing alone must not resolve: the adapter is the single
	// source of truth for this machine.
	clock.advance(2 * time.Second)
	m.Tick()
	if m.Mode() != ModeTransitioning {
		t.Fatalf("deadline must not race adapter completion, got %s", m.Mode())
	}

	adapter.complete = true
	m.Tick()
	if m.Mode() != ModeSite {
		t.Fatalf("expected site once adapter completes, got %s", m.Mode())
	}
}

func TestAdapterResetOnReturnToCloud(t *testing.T) {
	m, adapter, clock, _ := newMachine(t, DefaultConfig())
	driveToSite(t, m, clock)

	m.Feed(-1, true)
	for i := 0; i < 3; i++ {
		clock.advance(100 * time.Millisecond)
		m.Feed(-1, true)
	}
	clock.advance(600 * time.Millisecond)
	m.Tick()
	if m.Mode() != ModeCloud {
		t.Fatalf("expected cloud, got %s", m.Mode())
	}
	if adapter.resets != 1 {
		t.Fatalf("expected one adapter reset, got %d", adapter.resets)
	}
}

func TestAdapterFailureDoesNotBlockTransition(t *testing.T) {
	m, adapter, clock, changes := newMachine(t, DefaultConfig())
	driveToSite(t, m, clock)
	adapter.panicOnReset = true

	m.Feed(-1, true)
	for i := 0; i < 3; i++ {
		clock.advance(100 * time.Millisecond)
		m.Feed(-1, true)
	}
	clock.advance(600 * time.Millisecond)
	m.Tick()
	if m.Mode() != ModeCloud {
		t.Fatalf("a failing renderer must not block the mode change, got %s", m.Mode())
	}
	last := (*changes)[len(*changes)-1]
	if last.to != ModeCloud {
		t.Fatalf("expected observers notified of cloud, got %v", last)
	}
}

func TestObserverPanicIsolated(t *testing.T) {
	m, _, _, _ := newMachine(t, DefaultConfig())
	m.Subscribe(func(from, to Mode, dir Direction) {
		panic("observer exploded")
	})
	var after int
	m.Subscribe(func(from, to Mode, dir Direction) { after++ })

	m.Feed(200, true)
	if m.Mode() != ModeTransitioning {
		t.Fatalf("expected transitioning, got %s", m.Mode())
	}
	if after != 1 {
		t.Fatalf("later observers must still run, got %d calls", after)
	}
}

func TestSkip(t *testing.T) {
	m, _, _, changes := newMachine(t, DefaultConfig())
	m.Skip()
	if m.Mode() != ModeTransitioning {
		t.Fatalf("expected transitioning after skip, got %s", m.Mode())
	}
	if (*changes)[0].dir != DirectionCloudToSite {
		t.Fatalf("expected cloud→site, got %s", (*changes)[0].dir)
	}

	// Skip outside cloud is a no-op.
	m.Skip()
	if len(*changes) != 1 {
		t.Fatalf("expected one change, got %d", len(*changes))
	}
}

func TestTransitionProgress(t *testing.T) {
	m, _, clock, _ := newMachine(t, DefaultConfig())
	if got := m.TransitionProgress(); got != 0 {
		t.Fatalf("expected 0 before transition, got %v", got)
	}
	m.Feed(200, true)
	clock.advance(300 * time.Millisecond)
	got := m.TransitionProgress()
	if got < 0.49 || got > 0.51 {
		t.Fatalf("expected ~0.5 halfway, got %v", got)
	}
	clock.advance(time.Hour)
	if got := m.TransitionProgress(); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
}

func TestConfigNormalization(t *testing.T) {
	adapter := &fakeAdapter{}
	m, err := New(adapter, Config{ActivationThreshold: -5})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	def := DefaultConfig()
	if m.cfg.ActivationThreshold != def.ActivationThreshold {
		t.Fatalf("expected default threshold, got %v", m.cfg.ActivationThreshold)
	}
	if m.cfg.StaggerDelay != def.StaggerDelay {
		t.Fatalf("expected default stagger delay, got %v", m.cfg.StaggerDelay)
	}
}
