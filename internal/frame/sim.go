package frame

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/alvinow/folio/internal/bridge"
)

// simSpine is the fake publication the simulated renderer pages through.
var simSpine = []string{
	"cover.xhtml",
	"chap1.xhtml",
	"chap2.xhtml",
	"chap3.xhtml",
	"chap4.xhtml",
	"colophon.xhtml",
}

// SimFrame is an in-process stand-in for the embedded renderer. It speaks
// the Bridge Protocol faithfully enough for tests and --demo mode: answers
// ping with pong, self-announces initialized after InitDelay, emits
// locationChanged as next/prev walk a fixed spine, and ready after loadEpub.
type SimFrame struct {
	// InitDelay is how long after Start the frame self-announces. Zero means
	// announce immediately.
	InitDelay time.Duration

	mu     sync.Mutex
	loaded bool
	pos    int
	closed bool

	events chan []byte
}

// NewSimFrame creates a simulated frame. Start must be called to begin the
// initialized countdown, mirroring real frame construction.
func NewSimFrame(initDelay time.Duration) *SimFrame {
	return &SimFrame{
		InitDelay: initDelay,
		events:    make(chan []byte, 64),
	}
}

// Start arms the initialized self-announcement.
func (s *SimFrame) Start() {
	go func() {
		if s.InitDelay > 0 {
			time.Sleep(s.InitDelay)
		}
		s.emit(bridge.Event{Type: bridge.EventInitialized})
	}()
}

// Post applies a command to the simulated renderer.
func (s *SimFrame) Post(_ context.Context, msg bridge.Message) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	var out []bridge.Event
	switch msg.Action {
	case bridge.ActionPing:
		out = append(out, bridge.Event{Type: bridge.EventPong})

	case bridge.ActionLoadEpub:
		s.loaded = true
		s.pos = 0
		out = append(out,
			bridge.Event{Type: bridge.EventStatus, Message: "loading " + msg.URL},
			bridge.Event{Type: bridge.EventReady},
			s.locationEvent(),
		)

	case bridge.ActionNext:
		if s.loaded && s.pos < len(simSpine)-1 {
			s.pos++
			out = append(out, s.locationEvent())
		}

	case bridge.ActionPrev:
		if s.loaded && s.pos > 0 {
			s.pos--
			out = append(out, s.locationEvent())
		}

	case bridge.ActionFontSize:
		out = append(out, bridge.Event{Type: bridge.EventStatus, Message: fmt.Sprintf("font size %dpx", msg.Size)})

	case bridge.ActionTheme:
		out = append(out, bridge.Event{Type: bridge.EventStatus, Message: "theme " + msg.Theme})
	}
	s.mu.Unlock()

	for _, ev := range out {
		s.emit(ev)
	}
	return nil
}

// Events returns the inbound raw message stream.
func (s *SimFrame) Events() <-chan []byte { return s.events }

// Close stops the frame; later Posts return ErrClosed and the event stream
// is closed.
func (s *SimFrame) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.events)
	return nil
}

// locationEvent builds the locationChanged event for the current spine
// position. Caller holds s.mu.
func (s *SimFrame) locationEvent() bridge.Event {
	progression := 0.0
	if len(simSpine) > 1 {
		progression = float64(s.pos) / float64(len(simSpine)-1)
	}
	return bridge.Event{
		Type: bridge.EventLocationChanged,
		Location: &bridge.Location{
			Href:        simSpine[s.pos],
			Progression: progression,
		},
	}
}

// emit serializes and queues one event, dropping it if the frame closed or
// the buffer is full (a slow host sheds renderer chatter, it does not block
// the renderer).
func (s *SimFrame) emit(ev bridge.Event) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- raw:
	default:
	}
}
