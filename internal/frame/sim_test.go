package frame

import (
	"context"
	"testing"
	"time"

	"github.com/alvinow/folio/internal/bridge"
)

// collect drains events until one of the wanted type arrives or the timeout
// expires, decoding as it goes.
func waitFor(t *testing.T, ch <-chan []byte, want bridge.EventType) bridge.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case raw, ok := <-ch:
			if !ok {
				t.Fatalf("event stream closed while waiting for %q", want)
			}
			ev, err := bridge.DecodeEvent(raw)
			if err != nil {
				t.Fatalf("sim emitted malformed event: %v", err)
			}
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestSimFrameAnnouncesInitialized(t *testing.T) {
	s := NewSimFrame(10 * time.Millisecond)
	s.Start()
	waitFor(t, s.Events(), bridge.EventInitialized)
}

func TestSimFramePong(t *testing.T) {
	s := NewSimFrame(0)
	if err := s.Post(context.Background(), bridge.Ping()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	waitFor(t, s.Events(), bridge.EventPong)
}

func TestSimFrameLoadAndNavigate(t *testing.T) {
	ctx := context.Background()
	s := NewSimFrame(0)

	if err := s.Post(ctx, bridge.LoadEpub("https://example.com/b.epub")); err != nil {
		t.Fatalf("loadEpub: %v", err)
	}
	waitFor(t, s.Events(), bridge.EventReady)
	loc := waitFor(t, s.Events(), bridge.EventLocationChanged)
	if loc.Location.Href != simSpine[0] || loc.Location.Progression != 0.0 {
		t.Fatalf("initial location=%+v", loc.Location)
	}

	if err := s.Post(ctx, bridge.Next()); err != nil {
		t.Fatalf("next: %v", err)
	}
	loc = waitFor(t, s.Events(), bridge.EventLocationChanged)
	if loc.Location.Href != simSpine[1] {
		t.Fatalf("after next href=%q, want %q", loc.Location.Href, simSpine[1])
	}
	if loc.Location.Progression <= 0.0 || loc.Location.Progression > 1.0 {
		t.Fatalf("progression=%v out of range", loc.Location.Progression)
	}

	if err := s.Post(ctx, bridge.Prev()); err != nil {
		t.Fatalf("prev: %v", err)
	}
	loc = waitFor(t, s.Events(), bridge.EventLocationChanged)
	if loc.Location.Href != simSpine[0] {
		t.Fatalf("after prev href=%q", loc.Location.Href)
	}
}

func TestSimFramePrevAtStartEmitsNothing(t *testing.T) {
	ctx := context.Background()
	s := NewSimFrame(0)
	if err := s.Post(ctx, bridge.LoadEpub("u")); err != nil {
		t.Fatal(err)
	}
	waitFor(t, s.Events(), bridge.EventLocationChanged)

	if err := s.Post(ctx, bridge.Prev()); err != nil {
		t.Fatal(err)
	}
	// The very next event must be the pong: prev at the spine start emits
	// no location event.
	if err := s.Post(ctx, bridge.Ping()); err != nil {
		t.Fatal(err)
	}
	select {
	case raw := <-s.Events():
		ev, err := bridge.DecodeEvent(raw)
		if err != nil {
			t.Fatal(err)
		}
		if ev.Type != bridge.EventPong {
			t.Fatalf("unexpected event %q before pong", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pong")
	}
}

func TestSimFrameClose(t *testing.T) {
	s := NewSimFrame(0)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Post(context.Background(), bridge.Ping()); err != ErrClosed {
		t.Fatalf("post after close err=%v, want ErrClosed", err)
	}
	if _, ok := <-s.Events(); ok {
		t.Fatal("event stream should be closed")
	}
	// Idempotent.
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
