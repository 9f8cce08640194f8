// Package experience is the root Bubble Tea model: a cloud you scroll
// through, a transition, and the site underneath.
package experience

import (
	"time"

	tea "charm.land/bubbletea/v2"
	zone "github.com/lrstanley/bubblezone"

	"github.com/andyrewlee/nimbus/internal/config"
	"github.com/andyrewlee/nimbus/internal/content"
	"github.com/andyrewlee/nimbus/internal/input"
	"github.com/andyrewlee/nimbus/internal/keymap"
	"github.com/andyrewlee/nimbus/internal/logging"
	"github.com/andyrewlee/nimbus/internal/messages"
	"github.com/andyrewlee/nimbus/internal/progress"
	"github.com/andyrewlee/nimbus/internal/render"
	"github.com/andyrewlee/nimbus/internal/transition"
	"github.com/andyrewlee/nimbus/internal/ui/common"
)

const (
	frameInterval = time.Second / 60
	// idleInterval is the tick cadence while nothing animates: the site
	// is settled and no input or stagger timer is pending.
	idleInterval = 100 * time.Millisecond

	// cloudSeed keeps the opening frame identical across runs.
	cloudSeed = 0x6e696d

	zoneSkip    = "skip"
	zoneContact = "contact"
)

// Model is the root application model.
type Model struct {
	cfg    *config.Config
	keys   keymap.KeyMap
	styles common.Styles
	site   *content.Site
	zone   *zone.Manager

	// Modal experience: discrete cloud/transitioning/site modes.
	machine *transition.Machine
	// Dolly experience: continuous offset→progress mapping.
	controller  *progress.Controller
	dollyOffset float64

	cloud *render.CloudLayer
	// cloudEnabled is false when the adapter is overridden (degraded
	// terminal); the cloud layer then neither animates nor draws.
	cloudEnabled bool

	adapter    render.Adapter
	translator *input.Translator
	coalescer  input.Coalescer
	toast      *common.ToastModel

	width, height int
	siteOffset    int
	ready         bool
	quitting      bool
	debug         bool

	skipRegion    common.HitRegion
	contactRegion common.HitRegion

	lastFrame time.Time

	watcher  *config.Watcher
	changeCh chan messages.FileChanged
	modeCh   chan messages.ModeChanged
}

// Options tweaks construction for tests and degraded terminals.
type Options struct {
	// Adapter overrides the cloud renderer, e.g. render.NullAdapter when
	// the terminal cannot host the visuals.
	Adapter render.Adapter
	// StartInSite boots past the cloud entirely.
	StartInSite bool
	// DisableWatcher skips the home-directory watcher.
	DisableWatcher bool
	// Clock overrides the machine's time source.
	Clock func() time.Time
}

// New builds the experience from configuration and site content.
func New(cfg *config.Config, site *content.Site, opts Options) (*Model, error) {
	m := &Model{
		cfg:      cfg,
		keys:     keymap.New(cfg.KeyMap),
		styles:   common.DefaultStyles(),
		site:     site,
		zone:     zone.New(),
		toast:    common.NewToastModel(),
		debug:    cfg.Debug,
		changeCh: make(chan messages.FileChanged, 10),
		modeCh:   make(chan messages.ModeChanged, 10),
	}

	m.cloud = render.NewCloudLayer(cloudSeed)
	m.adapter = m.cloud
	m.cloudEnabled = true
	if opts.Adapter != nil {
		m.adapter = opts.Adapter
		m.cloudEnabled = false
	}

	machineOpts := []transition.Option{}
	if opts.StartInSite {
		machineOpts = append(machineOpts, transition.WithInitialMode(transition.ModeSite))
	}
	if opts.Clock != nil {
		machineOpts = append(machineOpts, transition.WithClock(opts.Clock))
	}
	machine, err := transition.New(m.adapter, cfg.MachineConfig(), machineOpts...)
	if err != nil {
		return nil, err
	}
	machine.Subscribe(m.onModeChange)
	m.machine = machine

	if cfg.Experience == config.ExperienceDolly {
		ctrl, err := progress.New(m.adapter, cfg.ControllerConfig())
		if err != nil {
			return nil, err
		}
		ctrl.Enable()
		if opts.StartInSite {
			// Content accessibility first: the site must show on the
			// opening frame, not after a ride through the cloud.
			m.dollyOffset = cfg.ScrollDistance
			ctrl.SetProgress(1)
		}
		m.controller = ctrl
	}

	m.translator = input.NewTranslator(m.keys, input.DefaultSteps())

	if !opts.DisableWatcher {
		watcher, err := config.NewWatcher(cfg.Paths, func(path string) {
			select {
			case m.changeCh <- messages.FileChanged{Path: path}:
			default:
				// Channel full, drop event (will catch on next change)
			}
		})
		if err != nil {
			logging.Warn("home watcher disabled: %v", err)
		} else {
			m.watcher = watcher
		}
	}

	return m, nil
}

// onModeChange runs inside the machine; it logs and forwards the event so
// Update can react on the next message.
func (m *Model) onModeChange(from, to transition.Mode, dir transition.Direction) {
	logging.Info("mode %s -> %s (%s)", from, to, dir)
	select {
	case m.modeCh <- messages.ModeChanged{From: from, To: to, Direction: dir}:
	default:
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.lastFrame = time.Now()
	cmds := []tea.Cmd{m.frameTick(), m.waitForModeChange()}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForFileChange())
	}
	return common.SafeBatch(cmds...)
}

func (m *Model) frameTick() tea.Cmd {
	return common.SafeTick(m.tickInterval(), func(t time.Time) tea.Msg {
		return messages.FrameTick{At: t}
	})
}

// tickInterval picks the frame cadence: full rate while anything animates
// or a timer needs millisecond resolution, a slow idle tick otherwise.
func (m *Model) tickInterval() time.Duration {
	if m.animating() {
		return frameInterval
	}
	return idleInterval
}

func (m *Model) animating() bool {
	if m.coalescer.Dirty() {
		return true
	}
	if m.controller != nil {
		return !m.controller.IsComplete() || m.controller.FrameDue()
	}
	if m.machine.Mode() != transition.ModeSite {
		return true
	}
	return m.machine.StaggerElapsed() > 0
}

func (m *Model) waitForFileChange() tea.Cmd {
	return common.SafeCmd(func() tea.Msg {
		return <-m.changeCh
	})
}

func (m *Model) waitForModeChange() tea.Cmd {
	return common.SafeCmd(func() tea.Msg {
		return <-m.modeCh
	})
}

// Mode returns the current navigation mode.
func (m *Model) Mode() transition.Mode { return m.machine.Mode() }

// Close releases background resources.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	if m.controller != nil {
		m.controller.Destroy()
	}
}

func (m *Model) atTop() bool { return m.siteOffset <= 0 }

// maxSiteOffset is the deepest the site can scroll for the current size.
func (m *Model) maxSiteOffset() int {
	lines, _ := m.buildSiteLines()
	visible := m.height - 1 // help bar
	if visible < 1 {
		visible = 1
	}
	max := len(lines) - visible
	if max < 0 {
		max = 0
	}
	return max
}

func (m *Model) clampSiteOffset() {
	if m.siteOffset < 0 {
		m.siteOffset = 0
	}
	if max := m.maxSiteOffset(); m.siteOffset > max {
		m.siteOffset = max
	}
}
