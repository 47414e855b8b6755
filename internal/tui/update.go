package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alvinow/folio/internal/bridge"
	"github.com/alvinow/folio/internal/reader"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = clampInt(msg.Width-30, 10, 60)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ctrlUpdateMsg:
		return m.handleCtrlUpdate(msg)

	case snackbarExpiredMsg:
		if msg.seq == m.snackbar.seq {
			m.snackbar.text = ""
		}
		return m, nil

	case bookmarksLoadedMsg:
		return m.handleBookmarksLoaded(msg)

	case bookmarkSavedMsg:
		if msg.err != nil {
			return m.showSnackbar("Bookmark failed: "+msg.err.Error(), true)
		}
		return m.showSnackbar("Bookmarked "+msg.bookmark.Href, false)

	case commandErrMsg:
		if msg.err == nil {
			return m, nil
		}
		if errors.Is(msg.err, bridge.ErrNotReady) {
			return m.showSnackbar("Reader is not ready yet", true)
		}
		return m.showSnackbar(msg.err.Error(), true)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleCtrlUpdate folds one controller update into the model and re-arms
// the subscription.
func (m Model) handleCtrlUpdate(msg ctrlUpdateMsg) (tea.Model, tea.Cmd) {
	m.snap = m.ctrl.Snapshot()
	cmds := []tea.Cmd{waitForUpdate(m.ctrl)}

	// Push configured theme and font once the frame first reports ready.
	if m.snap.Readiness == bridge.Ready && !m.prefsSent {
		m.prefsSent = true
		cmds = append(cmds, m.sendCmd(func(ctx context.Context) error {
			if err := m.ctrl.SetTheme(ctx, m.theme.name); err != nil {
				return err
			}
			return m.ctrl.SetFontSize(ctx, m.fontSize)
		}))
	}

	if n := msg.update.Notice; n != nil {
		next, cmd := m.showSnackbar(n.Text, n.IsErr)
		cmds = append(cmds, cmd)
		return next, tea.Batch(cmds...)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleBookmarksLoaded(msg bookmarksLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.showSnackbar("Bookmarks unavailable: "+msg.err.Error(), true)
	}
	if len(msg.items) == 0 {
		return m.showSnackbar("No bookmarks for this publication", false)
	}
	m.picker = newBookmarkPicker(msg.items)
	return m, nil
}

// ---------------------------------------------------------------------------
// Key dispatch — overlay precedence, highest first
// ---------------------------------------------------------------------------

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.urlOpen:
		return m.updateURLPrompt(msg)
	case m.labelOpen:
		return m.updateLabelPrompt(msg)
	case m.picker != nil:
		return m.updatePicker(msg)
	case m.showDebug:
		return m.updateDebugOverlay(msg)
	}
	return m.updateMain(msg)
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		return m, m.sendCmd(m.ctrl.NextPage)

	case key.Matches(msg, m.keys.Prev):
		return m, m.sendCmd(m.ctrl.PrevPage)

	case key.Matches(msg, m.keys.FontUp):
		m.fontSize = bridge.ClampFontSize(m.fontSize + 1)
		px := m.fontSize
		return m, m.sendCmd(func(ctx context.Context) error { return m.ctrl.SetFontSize(ctx, px) })

	case key.Matches(msg, m.keys.FontDown):
		m.fontSize = bridge.ClampFontSize(m.fontSize - 1)
		px := m.fontSize
		return m, m.sendCmd(func(ctx context.Context) error { return m.ctrl.SetFontSize(ctx, px) })

	case key.Matches(msg, m.keys.Theme):
		m.theme = nextTheme(m.theme)
		name := m.theme.name
		return m, m.sendCmd(func(ctx context.Context) error { return m.ctrl.SetTheme(ctx, name) })

	case key.Matches(msg, m.keys.Open):
		// Readiness is checked before prompting: a URL dialog over a dead
		// frame is a lie.
		if m.snap.Readiness != bridge.Ready {
			return m.showSnackbar("Reader is not ready yet", true)
		}
		m.urlOpen = true
		m.urlInput.SetValue(m.cfg.Reader.DefaultURL)
		m.urlInput.CursorEnd()
		m.urlInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Bookmark):
		if m.snap.PublicationURL == "" {
			return m.showSnackbar("Nothing loaded to bookmark", true)
		}
		m.labelOpen = true
		m.urlInput.SetValue("")
		m.urlInput.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Bookmarks):
		return m, m.loadBookmarksCmd()

	case key.Matches(msg, m.keys.Debug):
		m.showDebug = true
		return m, nil

	case key.Matches(msg, m.keys.Reinit):
		m.prefsSent = false
		next, cmd := m.showSnackbar("Reinitializing reader…", false)
		return next, tea.Batch(
			func() tea.Msg {
				m.ctrl.Reinitialize()
				return nil
			},
			cmd,
		)
	}
	return m, nil
}

func (m Model) updateURLPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.urlOpen = false
		m.urlInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		url := m.urlInput.Value()
		m.urlOpen = false
		m.urlInput.Blur()
		if url == "" {
			return m, nil
		}
		return m, tea.Batch(
			m.sendCmd(func(ctx context.Context) error { return m.ctrl.Load(ctx, url) }),
			m.resumeHintCmd(url),
		)
	}
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m Model) updateLabelPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.labelOpen = false
		m.urlInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		label := m.urlInput.Value()
		m.labelOpen = false
		m.urlInput.Blur()
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			bm, err := m.ctrl.AddBookmark(ctx, label)
			return bookmarkSavedMsg{bookmark: bm, err: err}
		}
	}
	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.picker = nil
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		bm, ok := m.picker.selected()
		m.picker = nil
		if !ok {
			return m, nil
		}
		return m.showSnackbar(fmt.Sprintf("%s — %s (%.0f%%)", bm.Label, bm.Href, bm.Progression*100), false)

	case key.Matches(msg, m.keys.CursorUp):
		m.picker.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.CursorDown):
		m.picker.moveCursor(1)
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		m.picker.backspace()
	case tea.KeyRunes:
		m.picker.typeRune(string(msg.Runes))
	}
	return m, nil
}

func (m Model) updateDebugOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Debug):
		m.showDebug = false
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return m, tea.Quit
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Commands and helpers
// ---------------------------------------------------------------------------

// sendCmd runs a controller call off the event loop and reports its error.
func (m Model) sendCmd(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return commandErrMsg{err: fn(ctx)}
	}
}

func (m Model) loadBookmarksCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		items, err := m.ctrl.Bookmarks(ctx)
		return bookmarksLoadedMsg{items: items, err: err}
	}
}

// resumeHintCmd surfaces the stored reading position for a publication.
// Informational only: the bridge vocabulary has no jump-to-href command, so
// the best the shell can do is tell the reader where they left off.
func (m Model) resumeHintCmd(url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		p, ok := m.ctrl.ResumeHint(ctx, url)
		if !ok {
			return nil
		}
		return ctrlUpdateMsg{update: reader.Update{Notice: &bridge.Notice{
			Text: fmt.Sprintf("Last read at %s (%.0f%%)", p.Href, p.Progression*100),
		}}}
	}
}

func (m Model) showSnackbar(text string, isErr bool) (Model, tea.Cmd) {
	m.snackbar = snackbar{text: text, isErr: isErr, seq: m.snackbar.seq + 1}
	seq := m.snackbar.seq
	return m, tea.Tick(snackbarTTL, func(time.Time) tea.Msg { return snackbarExpiredMsg{seq: seq} })
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
