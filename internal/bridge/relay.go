package bridge

import (
	"fmt"
	"sync"

	"github.com/alvinow/folio/internal/logging"
)

// Notice is a user-visible transient message surfaced by the relay
// (snackbar material, not log material).
type Notice struct {
	Text  string
	IsErr bool
}

// State is a point-in-time copy of the relay's observable state. The render
// layer only ever sees these snapshots, never live fields.
type State struct {
	Readiness Readiness
	Location  Location
	LastError string
	// PubReady reports that a publication finished loading and rendering
	// (the frame's "ready" event), distinct from frame readiness.
	PubReady bool
}

// Relay receives inbound frame messages, classifies them by type, and
// updates host-side observable state. It is the single writer of that state;
// everything else reads through Snapshot. Malformed or foreign messages are
// dropped without surfacing anything, since the host channel also carries
// unrelated browser traffic.
type Relay struct {
	mu        sync.Mutex
	handshake *Handshake
	location  Location
	lastError string
	pubReady  bool

	log    *DebugLog
	notify func(Notice) // nil ok
}

// NewRelay wires a relay over the given handshake and debug log. notify, if
// non-nil, is invoked for user-visible notices from the relay's own
// goroutine; it must be cheap and non-blocking.
func NewRelay(h *Handshake, log *DebugLog, notify func(Notice)) *Relay {
	return &Relay{handshake: h, log: log, notify: notify}
}

// HandleRaw decodes and applies one raw frame message.
func (r *Relay) HandleRaw(raw []byte) {
	ev, err := DecodeEvent(raw)
	if err != nil {
		logging.Debug("dropping malformed frame message", "err", err)
		return
	}
	r.Handle(ev)
}

// Handle applies one decoded event. No event type is fatal.
func (r *Relay) Handle(ev Event) {
	var notice *Notice

	r.mu.Lock()
	switch ev.Type {
	case EventStatus:
		r.log.Push(ev.Message)

	case EventInitialized:
		r.handshake.Announced()
		r.log.Push("frame initialized")

	case EventPong:
		r.handshake.Announced()
		r.log.Push("pong")

	case EventReady:
		r.pubReady = true
		r.log.Push("publication rendered")
		notice = &Notice{Text: "Publication loaded"}

	case EventError:
		// Non-fatal: the reader stays usable, readiness is untouched.
		r.lastError = ev.Message
		r.log.Push("renderer error: " + ev.Message)
		notice = &Notice{Text: ev.Message, IsErr: true}

	case EventLocationChanged:
		if ev.Location == nil {
			r.log.Push("locationChanged without location, ignored")
			break
		}
		// Progression is the renderer's to compute; absent means its
		// location index hasn't finished yet and decode already defaulted
		// it to 0.0.
		r.location = *ev.Location
		logging.Debug("location changed", "href", ev.Location.Href, "progression", ev.Location.Progression)

	default:
		r.log.Push(fmt.Sprintf("unknown frame event %q, ignored", ev.Type))
		logging.Debug("unknown frame event", "type", ev.Type)
	}
	r.mu.Unlock()

	if notice != nil {
		r.post(*notice)
	}
}

// Snapshot returns a copy of the observable state.
func (r *Relay) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return State{
		Readiness: r.handshake.State(),
		Location:  r.location,
		LastError: r.lastError,
		PubReady:  r.pubReady,
	}
}

// FrameConstructed forwards the construction milestone to the handshake.
// The relay owns the handshake; lifecycle callers go through these wrappers
// so the machine is never touched from two goroutines at once.
func (r *Relay) FrameConstructed() {
	r.mu.Lock()
	r.handshake.FrameConstructed()
	r.mu.Unlock()
}

// SettleElapsed forwards settle-delay expiry to the handshake.
func (r *Relay) SettleElapsed() {
	r.mu.Lock()
	r.handshake.SettleElapsed()
	r.mu.Unlock()
}

// FailConstruction marks the session failed (view registration or script
// injection error) and surfaces it.
func (r *Relay) FailConstruction(err error) {
	r.mu.Lock()
	r.handshake.Fail()
	r.lastError = err.Error()
	r.log.Push("construction failed: " + err.Error())
	r.mu.Unlock()
	r.post(Notice{Text: "Reader initialization failed: " + err.Error(), IsErr: true})
}

// Reset clears location, error, and publication state for a full
// re-initialization. The handshake and debug log are reset by the owner as
// part of the same sequence.
func (r *Relay) Reset() {
	r.mu.Lock()
	r.location = Location{}
	r.lastError = ""
	r.pubReady = false
	r.mu.Unlock()
}

func (r *Relay) post(n Notice) {
	if r.notify != nil {
		r.notify(n)
	}
}
