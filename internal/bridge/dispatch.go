package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/alvinow/folio/internal/logging"
)

// ErrNotReady is returned when a command that needs an explicit rejection is
// sent before the frame handshake completes. Navigation, font, and theme
// commands never return it; those are dropped silently instead.
var ErrNotReady = errors.New("frame not ready")

// Sink delivers an encoded command into the frame. Implemented by the frame
// transports.
type Sink interface {
	Post(ctx context.Context, msg Message) error
}

// Dispatcher validates readiness and forwards user-triggered commands into
// the frame. Fire-and-forget: there is no response correlation, replies
// arrive later as independent events through the relay.
type Dispatcher struct {
	relay *Relay
	sink  Sink
}

// NewDispatcher creates a dispatcher gated on the relay's readiness state.
func NewDispatcher(relay *Relay, sink Sink) *Dispatcher {
	return &Dispatcher{relay: relay, sink: sink}
}

// Send forwards a command to the frame, enforcing the readiness gate.
//
// Gate policy mirrors the command's user surface: navigation, font, and
// theme changes while not ready are silent no-ops (the user mashed a key
// before the frame woke up, nothing to apologize for); loadEpub gets an
// explicit ErrNotReady so the caller can surface a notice before prompting
// for a URL. Ping is exempt, it is part of establishing readiness.
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	if msg.RequiresReady() && d.relay.Snapshot().Readiness != Ready {
		if msg.Action == ActionLoadEpub {
			return ErrNotReady
		}
		logging.Debug("dropping command, frame not ready", "action", msg.Action)
		return nil
	}

	if err := d.sink.Post(ctx, msg); err != nil {
		return fmt.Errorf("post %s: %w", msg.Action, err)
	}
	return nil
}
