// Package tui is the host shell: a terminal surface that drives the
// embedded renderer through the reader controller and mirrors its
// observable state into widgets.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alvinow/folio/internal/bridge"
	"github.com/alvinow/folio/internal/config"
	"github.com/alvinow/folio/internal/reader"
	"github.com/alvinow/folio/internal/store"
)

const appName = "Folio"

// snackbarTTL is how long a transient notice stays on screen.
const snackbarTTL = 3 * time.Second

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

type ctrlUpdateMsg struct {
	update reader.Update
}

type snackbarExpiredMsg struct {
	seq int
}

type bookmarksLoadedMsg struct {
	items []store.Bookmark
	err   error
}

type bookmarkSavedMsg struct {
	bookmark store.Bookmark
	err      error
}

type commandErrMsg struct {
	err error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type snackbar struct {
	text  string
	isErr bool
	seq   int
}

type Model struct {
	ctrl *reader.Controller
	cfg  config.Config

	width  int
	height int

	snap      reader.Snapshot
	theme     readerTheme
	fontSize  int
	prefsSent bool // theme/font pushed once after first Ready

	snackbar  snackbar
	urlInput  textinput.Model
	urlOpen   bool
	labelOpen bool
	picker    *bookmarkPicker
	showDebug bool

	spin     spinner.Model
	progress progress.Model
	keys     keyMap
}

// New builds the shell model around a controller.
func New(ctrl *reader.Controller, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	theme := themeByName(cfg.Reader.Theme)

	return Model{
		ctrl:     ctrl,
		cfg:      cfg,
		theme:    theme,
		fontSize: bridge.ClampFontSize(cfg.Reader.FontSize),
		urlInput: ti,
		spin:     sp,
		progress: progress.New(progress.WithGradient(string(theme.accent), string(colorBrand))),
		keys:     newKeyMap(),
	}
}

// Init starts frame construction and subscribes to controller updates.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		func() tea.Msg {
			m.ctrl.Initialize()
			return nil
		},
		waitForUpdate(m.ctrl),
	)
}

// waitForUpdate blocks on the controller's update stream and feeds it into
// the tea loop, one message per update.
func waitForUpdate(ctrl *reader.Controller) tea.Cmd {
	return func() tea.Msg {
		return ctrlUpdateMsg{update: <-ctrl.Updates()}
	}
}
