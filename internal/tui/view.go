package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/alvinow/folio/internal/bridge"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}

	header := m.viewHeader()
	footer := m.viewFooter()
	status := m.viewStatusBar()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := m.viewBody(bodyHeight)

	base := lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)

	switch {
	case m.urlOpen:
		return compositeCentered(base, m.viewPrompt("Open publication URL"), m.width, m.height)
	case m.labelOpen:
		return compositeCentered(base, m.viewPrompt("Bookmark label"), m.width, m.height)
	case m.picker != nil:
		return compositeCentered(base, m.viewPicker(), m.width, m.height)
	case m.showDebug:
		return compositeCentered(base, m.viewDebug(), m.width, m.height)
	}
	return base
}

func (m Model) viewHeader() string {
	left := headerAppStyle.Render(appName)
	right := mutedStyle.Render(fmt.Sprintf("theme:%s  font:%dpx", m.theme.name, m.fontSize))
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return headerBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) viewBody(height int) string {
	var b strings.Builder

	pub := m.snap.PublicationURL
	if pub == "" {
		pub = mutedStyle.Render("no publication loaded — press o to open")
	} else {
		pub = titleStyle.Render(truncate(pub, m.width-12))
	}
	b.WriteString("Publication  " + pub + "\n\n")

	loc := m.snap.Location
	if loc.Href != "" {
		b.WriteString("Chapter      " + loc.Href + "\n")
		b.WriteString("Progress     " + m.progress.ViewAs(loc.Progression) +
			mutedStyle.Render(fmt.Sprintf("  %.0f%%", loc.Progression*100)) + "\n\n")
	} else {
		b.WriteString(mutedStyle.Render("Chapter      —") + "\n\n")
	}

	b.WriteString("Renderer     " + m.viewReadiness() + "\n")
	if m.snap.FrameURL != "" {
		b.WriteString(mutedStyle.Render("Frame        "+m.snap.FrameURL) + "\n")
	}
	if m.snap.LastError != "" {
		b.WriteString(failedStyle.Render("Error        "+truncate(m.snap.LastError, m.width-16)) + "\n")
	}

	panel := panelStyle.Width(m.width - 4).Render(b.String())
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, panel)
}

// viewReadiness renders the handshake state as a one-line status.
func (m Model) viewReadiness() string {
	switch m.snap.Readiness {
	case bridge.Ready:
		return readyStyle.Render("● ready")
	case bridge.Failed:
		return failedStyle.Render("✗ failed — press r to reinitialize")
	case bridge.HandshakePending:
		return pendingStyle.Render(m.spin.View() + "waiting for renderer handshake")
	case bridge.FrameCreated:
		return pendingStyle.Render(m.spin.View() + "frame settling")
	default:
		return mutedStyle.Render(m.spin.View() + "starting")
	}
}

func (m Model) viewStatusBar() string {
	if m.snackbar.text != "" {
		style := snackbarStyle
		if m.snackbar.isErr {
			style = snackbarErrStyle
		}
		return style.Width(m.width).Render(truncate(m.snackbar.text, m.width-4))
	}
	return statusBarStyle.Width(m.width).Render(truncate(m.statusLine(), m.width-4))
}

func (m Model) statusLine() string {
	if loc := m.snap.Location; loc.Href != "" {
		return fmt.Sprintf("%s · %.0f%%", loc.Href, loc.Progression*100)
	}
	return "idle"
}

func (m Model) viewFooter() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts,
			helpKeyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
	}
	return footerStyle.Width(m.width).Render(strings.Join(parts, "  "))
}

// ---------------------------------------------------------------------------
// Overlays
// ---------------------------------------------------------------------------

func (m Model) viewPrompt(title string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(m.urlInput.View() + "\n\n")
	b.WriteString(m.helpLine(m.keys.Confirm, m.keys.Cancel))
	return modalStyle.Render(b.String())
}

func (m Model) viewPicker() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Go to bookmark") + "\n\n")
	b.WriteString("Filter: " + m.picker.query + cursorStyle.Render("▌") + "\n\n")

	items := m.picker.filtered()
	if len(items) == 0 {
		b.WriteString(mutedStyle.Render("no matches") + "\n")
	}
	const maxRows = 8
	for i, bm := range items {
		if i >= maxRows {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("… %d more", len(items)-maxRows)) + "\n")
			break
		}
		line := fmt.Sprintf("%-24s %s (%.0f%%)", truncate(bm.Label, 24), bm.Href, bm.Progression*100)
		if i == m.picker.cursor {
			b.WriteString(cursorStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + m.helpLine(m.keys.CursorUp, m.keys.CursorDown, m.keys.Confirm, m.keys.Cancel))
	return modalStyle.Render(b.String())
}

func (m Model) viewDebug() string {
	var b strings.Builder
	b.WriteString(debugHeaderStyle.Render("Bridge debug log") +
		mutedStyle.Render(fmt.Sprintf("  (last %d)", bridge.DebugLogCap)) + "\n\n")

	entries := m.snap.DebugLog
	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("empty") + "\n")
	}
	width := m.width - 16
	for _, e := range entries {
		b.WriteString(debugTimeStyle.Render(e.Time.Format("15:04:05.000")) + "  " +
			truncate(e.Text, width) + "\n")
	}
	b.WriteString("\n" + m.helpLine(m.keys.Cancel))
	return modalStyle.Render(b.String())
}

func (m Model) helpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts,
			helpKeyStyle.Render(b.Help().Key)+" "+helpDescStyle.Render(b.Help().Desc))
	}
	return strings.Join(parts, "  ")
}
