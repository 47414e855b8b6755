package reader

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alvinow/folio/internal/bridge"
	"github.com/alvinow/folio/internal/frame"
	"github.com/alvinow/folio/internal/store"
)

func simFactory(initDelay time.Duration) TransportFactory {
	return func() (frame.Transport, error) {
		s := frame.NewSimFrame(initDelay)
		s.Start()
		return s, nil
	}
}

func newTestController(t *testing.T, factory TransportFactory) *Controller {
	t.Helper()
	c := NewController(Options{
		Factory:          factory,
		SettleDelay:      10 * time.Millisecond,
		HandshakeTimeout: 2 * time.Second,
	})
	t.Cleanup(c.Close)
	return c
}

func waitReadiness(t *testing.T, c *Controller, want bridge.Readiness) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		if c.Snapshot().Readiness == want {
			return
		}
		select {
		case <-c.Updates():
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			t.Fatalf("readiness=%v, want %v", c.Snapshot().Readiness, want)
		}
	}
}

func TestControllerReachesReady(t *testing.T) {
	c := newTestController(t, simFactory(20*time.Millisecond))
	require.Equal(t, bridge.Uninitialized, c.Snapshot().Readiness)
	c.Initialize()
	waitReadiness(t, c, bridge.Ready)
}

func TestControllerConstructionFailure(t *testing.T) {
	boom := errors.New("view registration failed")
	c := newTestController(t, func() (frame.Transport, error) { return nil, boom })
	c.Initialize()

	s := c.Snapshot()
	require.Equal(t, bridge.Failed, s.Readiness)
	require.Contains(t, s.LastError, "view registration failed")

	// Gated commands are dropped; loadEpub is rejected.
	require.NoError(t, c.NextPage(context.Background()))
	require.ErrorIs(t, c.Load(context.Background(), "https://example.com/b.epub"), bridge.ErrNotReady)
}

func TestControllerHandshakeDeadline(t *testing.T) {
	// A frame that never announces: handshake must fail, not hang forever.
	c := NewController(Options{
		Factory: func() (frame.Transport, error) {
			return frame.NewSimFrame(time.Hour), nil // Start never called
		},
		SettleDelay:      5 * time.Millisecond,
		HandshakeTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(c.Close)
	c.Initialize()
	waitReadiness(t, c, bridge.Failed)
}

func TestControllerLoadAndLocation(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, simFactory(0))
	c.Initialize()
	waitReadiness(t, c, bridge.Ready)

	require.NoError(t, c.Load(ctx, "https://example.com/moby-dick.epub"))
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.PubReady && s.Location.Href == "cover.xhtml"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.NextPage(ctx))
	require.Eventually(t, func() bool {
		return c.Snapshot().Location.Href == "chap1.xhtml"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestControllerReinitializeClearsState(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, simFactory(0))
	c.Initialize()
	waitReadiness(t, c, bridge.Ready)
	require.NoError(t, c.Load(ctx, "https://example.com/b.epub"))
	require.Eventually(t, func() bool { return c.Snapshot().PubReady }, 2*time.Second, 10*time.Millisecond)
	require.NotEmpty(t, c.Snapshot().DebugLog)

	c.Reinitialize()

	// Debug log cleared before repopulating; readiness re-established by a
	// fresh handshake.
	waitReadiness(t, c, bridge.Ready)
	for _, e := range c.Snapshot().DebugLog {
		require.NotContains(t, e.Text, "example.com/b.epub")
	}
}

func TestControllerPersistsPositions(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.RunMigrations(db))
	positions := store.NewPositionRepo(db)

	c := NewController(Options{
		Factory:          simFactory(0),
		SettleDelay:      5 * time.Millisecond,
		HandshakeTimeout: 2 * time.Second,
		Positions:        positions,
		Bookmarks:        store.NewBookmarkRepo(db),
	})
	t.Cleanup(c.Close)
	c.Initialize()
	waitReadiness(t, c, bridge.Ready)

	pub := "https://example.com/moby-dick.epub"
	_, found := c.ResumeHint(ctx, pub)
	require.False(t, found)

	require.NoError(t, c.Load(ctx, pub))
	require.NoError(t, c.NextPage(ctx))
	require.Eventually(t, func() bool {
		p, ok := c.ResumeHint(ctx, pub)
		return ok && p.Href == "chap1.xhtml"
	}, 2*time.Second, 10*time.Millisecond)

	bm, err := c.AddBookmark(ctx, "start of chapter one")
	require.NoError(t, err)
	require.Equal(t, pub, bm.PublicationURL)

	list, err := c.Bookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestControllerNoticesSurface(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, simFactory(0))
	c.Initialize()
	waitReadiness(t, c, bridge.Ready)
	require.NoError(t, c.Load(ctx, "https://example.com/b.epub"))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case u := <-c.Updates():
			if u.Notice != nil && !u.Notice.IsErr {
				return // "Publication loaded"
			}
		case <-deadline:
			t.Fatal("no success notice after load")
		}
	}
}
