package bridge

import "time"

// Readiness is the state of the frame handshake. Owned exclusively by the
// Handshake; the dispatcher only ever reads it through the relay snapshot.
type Readiness int

const (
	// Uninitialized: no frame exists yet.
	Uninitialized Readiness = iota
	// FrameCreated: frame constructed, bootstrap markup injected, view
	// registered with the host.
	FrameCreated
	// HandshakePending: settle delay elapsed, waiting for the frame script
	// environment to announce itself.
	HandshakePending
	// Ready: the frame answered with initialized or pong. Commands flow.
	Ready
	// Failed: unrecoverable construction error or handshake deadline expiry.
	// Only a full re-initialization leaves this state.
	Failed
)

func (r Readiness) String() string {
	switch r {
	case Uninitialized:
		return "uninitialized"
	case FrameCreated:
		return "frameCreated"
	case HandshakePending:
		return "handshakePending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Handshake is the small state machine that establishes confidence the
// embedded frame's script environment has loaded and is responsive. The
// frame announces readiness two ways: a self-announced "initialized" after
// its own post-load delay, or a "pong" answering our explicit probe. Either
// one promotes to Ready.
//
// HandshakePending carries a deadline: if neither signal arrives in time the
// handshake fails instead of gating commands forever. Not goroutine-safe;
// the relay is its only caller.
type Handshake struct {
	state    Readiness
	timeout  time.Duration
	deadline time.Time
	now      func() time.Time
}

// NewHandshake creates a handshake in Uninitialized with the given pending
// deadline. A zero timeout disables the deadline entirely.
func NewHandshake(timeout time.Duration) *Handshake {
	return &Handshake{timeout: timeout, now: time.Now}
}

// State returns the current readiness, applying deadline expiry lazily: a
// pending handshake whose deadline has passed reads as Failed.
func (h *Handshake) State() Readiness {
	if h.state == HandshakePending && !h.deadline.IsZero() && h.now().After(h.deadline) {
		h.state = Failed
	}
	return h.state
}

// FrameConstructed records that the frame object exists and its bootstrap
// markup was injected. Only valid from Uninitialized; from any other state
// it is ignored (stale construction callbacks after a reset).
func (h *Handshake) FrameConstructed() {
	if h.state != Uninitialized {
		return
	}
	h.state = FrameCreated
}

// SettleElapsed records that the fixed settle delay passed and arms the
// pending deadline.
func (h *Handshake) SettleElapsed() {
	if h.state != FrameCreated {
		return
	}
	h.state = HandshakePending
	if h.timeout > 0 {
		h.deadline = h.now().Add(h.timeout)
	}
}

// Announced records receipt of an initialized or pong event. Promotion to
// Ready is accepted from FrameCreated as well: a fast frame may announce
// before the settle delay fires.
func (h *Handshake) Announced() {
	switch h.State() {
	case FrameCreated, HandshakePending:
		h.state = Ready
	}
}

// Fail marks the handshake failed. Used for construction errors (view
// registration, script injection) at any point.
func (h *Handshake) Fail() {
	h.state = Failed
}

// Reset returns the machine to Uninitialized. The only recovery path out of
// Failed: re-run the whole construction sequence.
func (h *Handshake) Reset() {
	h.state = Uninitialized
	h.deadline = time.Time{}
}
