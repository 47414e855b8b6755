package bridge

import (
	"testing"
	"time"
)

func TestHandshakeHappyPath(t *testing.T) {
	h := NewHandshake(5 * time.Second)
	if h.State() != Uninitialized {
		t.Fatalf("fresh state=%v", h.State())
	}
	h.FrameConstructed()
	if h.State() != FrameCreated {
		t.Fatalf("after construction state=%v", h.State())
	}
	h.SettleElapsed()
	if h.State() != HandshakePending {
		t.Fatalf("after settle state=%v", h.State())
	}
	h.Announced()
	if h.State() != Ready {
		t.Fatalf("after announce state=%v", h.State())
	}
}

func TestHandshakeEarlyAnnounce(t *testing.T) {
	// A fast frame may self-announce before the settle delay fires.
	h := NewHandshake(5 * time.Second)
	h.FrameConstructed()
	h.Announced()
	if h.State() != Ready {
		t.Fatalf("state=%v, want Ready", h.State())
	}
	// The late settle must not demote.
	h.SettleElapsed()
	if h.State() != Ready {
		t.Fatalf("settle after ready demoted to %v", h.State())
	}
}

func TestHandshakeDeadlineExpiry(t *testing.T) {
	h := NewHandshake(100 * time.Millisecond)
	now := time.Now()
	h.now = func() time.Time { return now }

	h.FrameConstructed()
	h.SettleElapsed()
	if h.State() != HandshakePending {
		t.Fatalf("state=%v", h.State())
	}

	now = now.Add(101 * time.Millisecond)
	if h.State() != Failed {
		t.Fatalf("state after deadline=%v, want Failed", h.State())
	}
	// Announcements after failure are ignored.
	h.Announced()
	if h.State() != Failed {
		t.Fatalf("announce resurrected failed handshake: %v", h.State())
	}
}

func TestHandshakeZeroTimeoutNeverExpires(t *testing.T) {
	h := NewHandshake(0)
	now := time.Now()
	h.now = func() time.Time { return now }
	h.FrameConstructed()
	h.SettleElapsed()
	now = now.Add(24 * time.Hour)
	if h.State() != HandshakePending {
		t.Fatalf("state=%v, want HandshakePending with deadline disabled", h.State())
	}
}

func TestHandshakeResetFromFailed(t *testing.T) {
	h := NewHandshake(time.Second)
	h.FrameConstructed()
	h.Fail()
	if h.State() != Failed {
		t.Fatalf("state=%v", h.State())
	}
	h.Reset()
	if h.State() != Uninitialized {
		t.Fatalf("state after reset=%v", h.State())
	}
	// Full construction sequence works again.
	h.FrameConstructed()
	h.SettleElapsed()
	h.Announced()
	if h.State() != Ready {
		t.Fatalf("state after rerun=%v", h.State())
	}
}

func TestHandshakeIgnoresStaleConstruction(t *testing.T) {
	h := NewHandshake(time.Second)
	h.FrameConstructed()
	h.SettleElapsed()
	h.Announced()
	// A stale construction callback after readiness must not rewind.
	h.FrameConstructed()
	if h.State() != Ready {
		t.Fatalf("state=%v, want Ready", h.State())
	}
}
