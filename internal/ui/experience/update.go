package experience

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/nimbus/internal/config"
	"github.com/andyrewlee/nimbus/internal/content"
	"github.com/andyrewlee/nimbus/internal/input"
	"github.com/andyrewlee/nimbus/internal/keymap"
	"github.com/andyrewlee/nimbus/internal/logging"
	"github.com/andyrewlee/nimbus/internal/messages"
	"github.com/andyrewlee/nimbus/internal/transition"
	"github.com/andyrewlee/nimbus/internal/ui/common"
)

// siteWheelLines is how many site lines one wheel notch moves.
const siteWheelLines = 3

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cloud.SetSize(msg.Width, msg.Height)
		m.clampSiteOffset()
		m.ready = true

	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg)...)

	case tea.MouseWheelMsg:
		m.handleWheel(msg)

	case tea.MouseClickMsg:
		cmds = append(cmds, m.handleClick(msg)...)

	case messages.FrameTick:
		cmds = append(cmds, m.handleFrame(msg)...)

	case messages.ModeChanged:
		if msg.To == transition.ModeSite && msg.From == transition.ModeTransitioning {
			m.siteOffset = 0
		}
		cmds = append(cmds, m.waitForModeChange())

	case messages.FileChanged:
		cmds = append(cmds, m.reloadCmd(msg.Path), m.waitForFileChange())

	case messages.ConfigReloaded:
		m.applyConfig(msg.Config)
		cmds = append(cmds, m.toast.ShowInfo("config reloaded"))

	case messages.ContentReloaded:
		m.site = msg.Site
		m.clampSiteOffset()
		cmds = append(cmds, m.toast.ShowInfo("content reloaded"))

	case messages.ContactCopied:
		if msg.Err != nil {
			logging.WithError(msg.Err, "copy contact")
			cmds = append(cmds, m.toast.ShowError("copy failed"))
		} else {
			cmds = append(cmds, m.toast.ShowSuccess("copied "+msg.Value))
		}

	case messages.Error:
		if !msg.Logged {
			logging.WithError(msg.Err, msg.Context)
		}
		cmds = append(cmds, m.toast.ShowError(msg.Err.Error()))

	case common.ToastDismissed:
		_, cmd := m.toast.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, common.SafeBatch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) []tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.Close()
		return []tea.Cmd{tea.Quit}

	case key.Matches(msg, m.keys.Debug):
		m.debug = !m.debug
		return nil

	case key.Matches(msg, m.keys.SkipIntro):
		return m.skip()

	case key.Matches(msg, m.keys.CopyContact):
		if m.inSite() {
			return []tea.Cmd{m.copyContactCmd()}
		}
		return nil

	case key.Matches(msg, m.keys.Top):
		if m.inSite() {
			m.siteOffset = 0
		}
		return nil

	case key.Matches(msg, m.keys.Bottom):
		if m.inSite() {
			m.siteOffset = m.maxSiteOffset()
		}
		return nil
	}

	if delta, ok := m.translator.Key(msg); ok {
		m.routeScroll(delta, m.keyLines(msg))
	}
	return nil
}

// keyLines maps a scroll keypress to site lines.
func (m *Model) keyLines(msg tea.KeyPressMsg) int {
	switch {
	case key.Matches(msg, m.keys.PageDown):
		return m.pageLines()
	case key.Matches(msg, m.keys.PageUp):
		return -m.pageLines()
	case key.Matches(msg, m.keys.ScrollDown):
		return 1
	case key.Matches(msg, m.keys.ScrollUp):
		return -1
	}
	return 0
}

func (m *Model) pageLines() int {
	return common.ScrollDeltaForHeight(m.height, 1)
}

func (m *Model) handleWheel(msg tea.MouseWheelMsg) {
	delta, ok := m.translator.Wheel(msg)
	if !ok {
		return
	}
	lines := siteWheelLines
	if delta < 0 {
		lines = -siteWheelLines
	}
	m.routeScroll(delta, lines)
}

// routeScroll feeds gesture deltas to whichever model is in charge. The
// delta goes through the coalescer and lands on the machine or controller
// at the next frame; site line movement applies immediately so scrolling
// stays responsive.
func (m *Model) routeScroll(delta float64, lines int) {
	if m.controller != nil {
		m.coalescer.Add(delta)
		return
	}

	switch m.machine.Mode() {
	case transition.ModeCloud:
		m.coalescer.Add(delta)
	case transition.ModeSite:
		m.coalescer.Add(delta)
		m.siteOffset += lines
		m.clampSiteOffset()
	case transition.ModeTransitioning:
		// Dropped. The machine ignores input mid-transition and so do we.
	}
}

func (m *Model) handleClick(msg tea.MouseClickMsg) []tea.Cmd {
	if msg.Button != tea.MouseLeft {
		return nil
	}
	if m.showsCloud() && m.skipRegion.Contains(msg.X, msg.Y) {
		return m.skip()
	}
	if m.inSite() && m.contactRegion.Contains(msg.X, msg.Y) {
		return []tea.Cmd{m.copyContactCmd()}
	}
	return nil
}

func (m *Model) handleFrame(msg messages.FrameTick) []tea.Cmd {
	dt := msg.At.Sub(m.lastFrame)
	if dt < 0 {
		dt = 0
	}
	m.lastFrame = msg.At

	if m.cloudEnabled {
		m.cloud.Advance(dt)
	}

	if delta, ok := m.coalescer.Take(); ok {
		if m.controller != nil {
			m.dollyOffset += delta
			if m.dollyOffset < 0 {
				m.dollyOffset = 0
			}
			if limit := m.dollyCap(); m.dollyOffset > limit {
				m.dollyOffset = limit
			}
			m.controller.SetOffset(m.dollyOffset)
		} else {
			m.machine.Feed(delta, m.atTop())
		}
	}

	if m.controller != nil {
		if m.controller.FrameDue() {
			m.controller.OnFrame()
		}
		m.syncDollySite()
	} else {
		if m.machine.Mode() == transition.ModeTransitioning {
			// The renderer must see the wipe advance every frame, both
			// for the camera movement and so adapter-authoritative
			// completion has a progress signal to observe.
			m.updateAdapter(m.machine.TransitionProgress())
		}
		m.machine.Tick()
	}

	if m.quitting {
		return nil
	}
	return []tea.Cmd{m.frameTick()}
}

// updateAdapter forwards the progress scalar to the renderer, isolated so
// a failing renderer cannot take the experience down.
func (m *Model) updateAdapter(p float64) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("renderer update failed: %v", r)
		}
	}()
	m.adapter.UpdateScroll(p)
}

// syncDollySite derives the site scroll position from the portion of the
// dolly offset past the cloud.
func (m *Model) syncDollySite() {
	over := m.dollyOffset - m.cfg.ScrollDistance
	if over < 0 {
		m.siteOffset = 0
		return
	}
	m.siteOffset = int(over / float64(dollyUnitsPerLine))
	m.clampSiteOffset()
}

// dollyUnitsPerLine converts scroll units past the cloud into site lines.
const dollyUnitsPerLine = 30

func (m *Model) dollyCap() float64 {
	return m.cfg.ScrollDistance + float64(m.maxSiteOffset()*dollyUnitsPerLine)
}

func (m *Model) skip() []tea.Cmd {
	if m.controller != nil {
		if !m.controller.IsComplete() {
			m.dollyOffset = m.cfg.ScrollDistance
			m.controller.SetProgress(1)
		}
		return nil
	}
	if m.machine.Mode() == transition.ModeCloud {
		m.machine.Skip()
	}
	return nil
}

// inSite reports whether site interactions (copy, scroll keys) apply.
func (m *Model) inSite() bool {
	if m.controller != nil {
		return m.controller.IsComplete()
	}
	return m.machine.Mode() == transition.ModeSite
}

// showsCloud reports whether the cloud (and its skip control) is on screen.
func (m *Model) showsCloud() bool {
	if m.controller != nil {
		return !m.controller.IsComplete()
	}
	return m.machine.Mode() == transition.ModeCloud
}

func (m *Model) reloadCmd(path string) tea.Cmd {
	paths := m.cfg.Paths
	switch path {
	case paths.ContentPath:
		return common.SafeCmd(func() tea.Msg {
			site, err := content.Load(paths)
			if err != nil {
				return messages.Error{Err: err, Context: "reload content"}
			}
			return messages.ContentReloaded{Site: site}
		})
	default:
		return common.SafeCmd(func() tea.Msg {
			cfg, err := config.LoadFromPaths(paths)
			if err != nil {
				return messages.Error{Err: err, Context: "reload config"}
			}
			return messages.ConfigReloaded{Config: cfg}
		})
	}
}

// applyConfig adopts a reloaded configuration. Machine tuning only swaps
// between transitions; a transition in flight keeps its original timing.
// Switching the experience variant requires a restart.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.keys = keymap.New(cfg.KeyMap)
	m.translator = input.NewTranslator(m.keys, input.DefaultSteps())
	m.debug = cfg.Debug

	if m.controller == nil && m.machine.Mode() != transition.ModeTransitioning {
		machine, err := transition.New(m.adapter, cfg.MachineConfig(),
			transition.WithInitialMode(m.machine.Mode()))
		if err != nil {
			logging.WithError(err, "rebuild machine")
			return
		}
		machine.Subscribe(m.onModeChange)
		m.machine = machine
	}
}

func (m *Model) copyContactCmd() tea.Cmd {
	email := m.site.Contact.Email
	return common.SafeCmd(func() tea.Msg {
		err := common.CopyToClipboard(email)
		return messages.ContactCopied{Value: email, Err: err}
	})
}
