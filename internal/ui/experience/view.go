package experience

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/nimbus/internal/transition"
	"github.com/andyrewlee/nimbus/internal/ui/common"
)

const (
	skipLabel  = " skip intro "
	scrollHint = "scroll to descend"

	siteMargin   = 2
	maxTextWidth = 72
)

// View implements tea.Model.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion
	view.BackgroundColor = common.ColorBackground
	view.ForegroundColor = common.ColorForeground

	view.SetContent(m.renderBody())
	return view
}

// renderBody draws the frame for the current state.
func (m *Model) renderBody() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var body string
	switch {
	case m.controller != nil:
		body = m.dollyView()
	case m.machine.Mode() == transition.ModeTransitioning:
		body = m.transitionView()
	case m.machine.Mode() == transition.ModeSite:
		body = m.siteView()
	default:
		body = m.cloudView()
	}

	if m.debug {
		body = m.overlayDebug(body)
	}

	return m.zone.Scan(body)
}

// cloudFrame is the animated backdrop, or blank rows when the terminal
// cannot host the visuals.
func (m *Model) cloudFrame() string {
	if !m.cloudEnabled {
		return ""
	}
	return m.cloud.Render()
}

// cloudView renders the cloud with the title card and skip control on top.
func (m *Model) cloudView() string {
	lines := strings.Split(m.cloudFrame(), "\n")
	for len(lines) < m.height {
		lines = append(lines, "")
	}

	titleY := m.height / 3
	setLine(lines, titleY, m.centered(m.styles.Title.Render(m.site.Title)))
	setLine(lines, titleY+1, m.centered(m.styles.Tagline.Render(m.site.Tagline)))

	setLine(lines, m.height-3, m.centered(m.styles.ScrollHint.Render(scrollHint)))

	skip := m.styles.SkipButton.Render(skipLabel)
	setLine(lines, m.height-2, m.centered(m.zone.Mark(zoneSkip, skip)))
	m.skipRegion = common.HitRegion{
		ID:     zoneSkip,
		X:      (m.width - runewidth.StringWidth(skipLabel)) / 2,
		Y:      m.height - 2,
		Width:  runewidth.StringWidth(skipLabel),
		Height: 1,
	}

	return strings.Join(lines[:m.height], "\n")
}

// transitionView wipes the site in from the bottom (or out, when heading
// back to the cloud).
func (m *Model) transitionView() string {
	p := m.machine.TransitionProgress()
	siteRows := int(p * float64(m.height))
	if m.machine.Direction() == transition.DirectionSiteToCloud {
		siteRows = m.height - siteRows
	}
	if siteRows < 0 {
		siteRows = 0
	}
	if siteRows > m.height {
		siteRows = m.height
	}

	cloudLines := strings.Split(m.cloudFrame(), "\n")
	siteLines := strings.Split(m.siteView(), "\n")

	out := make([]string, 0, m.height)
	for y := 0; y < m.height-siteRows; y++ {
		out = append(out, lineAt(cloudLines, y))
	}
	for y := 0; y < siteRows; y++ {
		out = append(out, lineAt(siteLines, y))
	}
	return strings.Join(out, "\n")
}

// siteView renders the scrolled site copy plus the help bar.
func (m *Model) siteView() string {
	lines, contactIdx := m.buildSiteLines()

	visible := m.height - 1
	if visible < 1 {
		visible = 1
	}

	top := m.siteOffset
	if top > len(lines) {
		top = len(lines)
	}
	end := top + visible
	if end > len(lines) {
		end = len(lines)
	}

	out := make([]string, 0, m.height)
	out = append(out, lines[top:end]...)
	for len(out) < visible {
		out = append(out, "")
	}
	out = append(out, m.helpBar())

	// Contact is clickable only while its line is on screen.
	m.contactRegion = common.HitRegion{}
	if contactIdx >= top && contactIdx < end {
		m.contactRegion = common.HitRegion{
			ID:     zoneContact,
			X:      siteMargin,
			Y:      contactIdx - top,
			Width:  runewidth.StringWidth(m.contactText()),
			Height: 1,
		}
	}

	return strings.Join(out, "\n")
}

// dollyView is the continuous variant: cloud until the ride completes,
// site afterwards.
func (m *Model) dollyView() string {
	if m.controller.IsComplete() {
		return m.siteView()
	}
	return m.cloudView()
}

func (m *Model) contactText() string {
	return m.site.Contact.Email + "  " + m.site.Contact.Prompt
}

// buildSiteLines lays the site copy out for the current width and returns
// the index of the contact line.
func (m *Model) buildSiteLines() ([]string, int) {
	w := m.width - siteMargin*2
	if w > maxTextWidth {
		w = maxTextWidth
	}
	if w < 10 {
		w = 10
	}
	indent := strings.Repeat(" ", siteMargin)

	push := func(dst []string, block string) []string {
		for _, line := range strings.Split(block, "\n") {
			dst = append(dst, indent+line)
		}
		return dst
	}

	var lines []string
	lines = append(lines, "")
	lines = push(lines, m.styles.Title.Render(m.site.Title))
	lines = push(lines, m.styles.Tagline.Render(m.site.Tagline))

	for _, sec := range m.site.Sections {
		lines = append(lines, "")
		lines = push(lines, m.styles.Heading.Render(sec.Heading))
		if sec.Body != "" {
			lines = push(lines, m.styles.Body.Width(w).Render(sec.Body))
		}
		for _, item := range sec.Items {
			lines = push(lines, m.styles.Item.Render("• "+item))
		}
	}

	lines = append(lines, "")
	contactIdx := len(lines)
	contact := m.styles.Contact.Render(m.site.Contact.Email) +
		"  " + m.styles.ContactPrompt.Render(m.site.Contact.Prompt)
	lines = push(lines, m.zone.Mark(zoneContact, contact))
	lines = append(lines, "")

	return lines, contactIdx
}

func (m *Model) helpBar() string {
	type hint struct{ k, d string }
	var hints []hint
	if m.inSite() {
		hints = []hint{
			{"j/k", "scroll"},
			{"g/G", "top/bottom"},
			{"c", "copy contact"},
			{"q", "quit"},
		}
	} else {
		hints = []hint{
			{"wheel/j", "descend"},
			{"enter", "skip"},
			{"q", "quit"},
		}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, m.styles.HelpKey.Render(h.k)+" "+m.styles.HelpDesc.Render(h.d))
	}
	return " " + strings.Join(parts, m.styles.Help.Render("  •  "))
}

// overlayDebug replaces the top line with the state readout.
func (m *Model) overlayDebug(body string) string {
	lines := strings.Split(body, "\n")
	if len(lines) == 0 {
		return body
	}

	var s string
	if m.controller != nil {
		s = fmt.Sprintf("dolly offset=%.0f progress=%.2f complete=%v",
			m.dollyOffset, m.controller.Progress(), m.controller.IsComplete())
	} else {
		s = fmt.Sprintf("mode=%s fwd=%.2f trans=%.2f stagger=%s off=%d",
			m.machine.Mode(), m.machine.ForwardProgress(),
			m.machine.TransitionProgress(), m.machine.StaggerElapsed(), m.siteOffset)
	}
	lines[0] = m.styles.DebugOverlay.Render(
		m.styles.DebugLabel.Render("debug ") + s)
	return strings.Join(lines, "\n")
}

func (m *Model) centered(s string) string {
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

func setLine(lines []string, y int, s string) {
	if y >= 0 && y < len(lines) {
		lines[y] = s
	}
}

func lineAt(lines []string, y int) string {
	if y >= 0 && y < len(lines) {
		return lines[y]
	}
	return ""
}
