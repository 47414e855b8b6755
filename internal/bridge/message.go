// Package bridge implements the message protocol spoken between the host
// shell and the embedded renderer frame, plus the host-side pieces that
// speak it: the command dispatcher, the event relay, and the readiness
// handshake.
//
// Allowed here:
// - message and event vocabulary, encode/decode, boundary validation
// - readiness state machine and the observable reader state it gates
// - the bounded debug log fed by relay traffic
//
// Not allowed here:
// - frame construction or transports (internal/frame)
// - rendering or widgets (internal/tui)
package bridge

import (
	"encoding/json"
	"fmt"
)

// Action identifies a host→frame command.
type Action string

const (
	ActionLoadEpub Action = "loadEpub"
	ActionNext     Action = "next"
	ActionPrev     Action = "prev"
	ActionFontSize Action = "fontSize"
	ActionTheme    Action = "theme"
	ActionPing     Action = "ping"
)

// Reader font size bounds. Advisory: callers clamp before building the
// message; the dispatcher forwards whatever it is handed.
const (
	MinFontSize = 12
	MaxFontSize = 32
)

// Theme names the renderer understands.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeSepia = "sepia"
)

// Message is a host→frame command. Flat key-value record with a single
// discriminator so it survives any structured-clone style channel without a
// schema registry. Immutable once sent.
type Message struct {
	Action Action `json:"action"`
	URL    string `json:"url,omitempty"`
	Size   int    `json:"size,omitempty"`
	Theme  string `json:"theme,omitempty"`
}

// LoadEpub asks the renderer to load and display the publication at url.
func LoadEpub(url string) Message { return Message{Action: ActionLoadEpub, URL: url} }

// Next advances one page/spine step.
func Next() Message { return Message{Action: ActionNext} }

// Prev retreats one page/spine step.
func Prev() Message { return Message{Action: ActionPrev} }

// FontSize sets the reading font size in pixels.
func FontSize(px int) Message { return Message{Action: ActionFontSize, Size: px} }

// SetTheme sets the renderer color theme.
func SetTheme(name string) Message { return Message{Action: ActionTheme, Theme: name} }

// Ping is a liveness probe; the frame answers with a pong event.
func Ping() Message { return Message{Action: ActionPing} }

// RequiresReady reports whether the action touches renderer state and must
// therefore be gated on the readiness handshake. Ping is exempt: it is how
// readiness gets established in the first place.
func (m Message) RequiresReady() bool {
	switch m.Action {
	case ActionNext, ActionPrev, ActionFontSize, ActionTheme, ActionLoadEpub:
		return true
	}
	return false
}

// Validate checks the message against the closed vocabulary before it
// crosses the boundary.
func (m Message) Validate() error {
	switch m.Action {
	case ActionLoadEpub:
		if m.URL == "" {
			return fmt.Errorf("loadEpub: missing url")
		}
	case ActionFontSize:
		if m.Size <= 0 {
			return fmt.Errorf("fontSize: size must be positive, got %d", m.Size)
		}
	case ActionTheme:
		if !ValidTheme(m.Theme) {
			return fmt.Errorf("theme: unknown theme %q", m.Theme)
		}
	case ActionNext, ActionPrev, ActionPing:
		// no payload
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
	return nil
}

// Encode serializes the message for the frame channel.
func (m Message) Encode() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

// ValidTheme reports whether name is one of the renderer's themes.
func ValidTheme(name string) bool {
	switch name {
	case ThemeLight, ThemeDark, ThemeSepia:
		return true
	}
	return false
}

// ClampFontSize clamps px into the advisory reader bounds.
func ClampFontSize(px int) int {
	if px < MinFontSize {
		return MinFontSize
	}
	if px > MaxFontSize {
		return MaxFontSize
	}
	return px
}
