// Package reader orchestrates one reading session: it owns the frame
// transport, runs the construction sequence and readiness handshake, pumps
// frame events into the relay, and persists reading positions.
package reader

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/alvinow/folio/internal/bridge"
	"github.com/alvinow/folio/internal/frame"
	"github.com/alvinow/folio/internal/logging"
	"github.com/alvinow/folio/internal/store"
)

// pingDelay is how long after the settle delay the one-shot liveness probe
// goes out. No retry: if the pong never comes, readiness rides on the
// frame's own initialized announcement, and past that the handshake
// deadline fails the session.
const pingDelay = 100 * time.Millisecond

// Update tells the UI that observable state changed. Notice is non-nil when
// the change warrants a snackbar.
type Update struct {
	Notice *bridge.Notice
}

// Snapshot is the controller's observable state plus session details.
type Snapshot struct {
	bridge.State
	FrameURL       string
	PublicationURL string
	DebugLog       []bridge.DebugEntry
}

// TransportFactory builds a fresh frame transport for each (re)initialization.
type TransportFactory func() (frame.Transport, error)

// Controller owns the single frame instance and everything that speaks to
// it. The host is effectively single-threaded (the TUI event loop), but the
// event pump runs on its own goroutine, so internal state is still guarded.
type Controller struct {
	factory      TransportFactory
	settleDelay  time.Duration
	hsTimeout    time.Duration
	positions    *store.PositionRepo // nil disables persistence
	bookmarks    *store.BookmarkRepo // nil disables bookmarks

	mu        sync.Mutex
	gen       int
	transport frame.Transport
	relay     *bridge.Relay
	disp      *bridge.Dispatcher
	debugLog  *bridge.DebugLog
	pubURL    string
	frameURL  string

	updates chan Update
}

// Options configures a Controller.
type Options struct {
	Factory          TransportFactory
	SettleDelay      time.Duration
	HandshakeTimeout time.Duration
	Positions        *store.PositionRepo
	Bookmarks        *store.BookmarkRepo
}

// NewController creates a controller. Initialize must be called to build
// the first frame.
func NewController(opts Options) *Controller {
	return &Controller{
		factory:     opts.Factory,
		settleDelay: opts.SettleDelay,
		hsTimeout:   opts.HandshakeTimeout,
		positions:   opts.Positions,
		bookmarks:   opts.Bookmarks,
		debugLog:    bridge.NewDebugLog(),
		updates:     make(chan Update, 16),
	}
}

// Updates is the stream the UI waits on; one receive per observable change,
// coalesced under pressure.
func (c *Controller) Updates() <-chan Update { return c.updates }

// Initialize runs the construction sequence: build transport, mark the
// frame created, wait the settle delay, send the one-shot probe, and let
// the handshake decide readiness. Construction failure is fatal to the
// session; the only recovery is Reinitialize.
func (c *Controller) Initialize() {
	c.mu.Lock()
	c.gen++
	gen := c.gen

	relay := bridge.NewRelay(bridge.NewHandshake(c.hsTimeout), c.debugLog, func(n bridge.Notice) {
		c.postUpdate(Update{Notice: &n})
	})
	c.relay = relay

	t, err := c.factory()
	if err != nil {
		c.transport = nil
		c.disp = bridge.NewDispatcher(relay, nopSink{})
		c.mu.Unlock()
		relay.FailConstruction(err)
		logging.Error("frame construction failed", "err", err)
		return
	}
	c.transport = t
	c.disp = bridge.NewDispatcher(relay, t)
	if wf, ok := t.(*frame.WebFrame); ok {
		c.frameURL = wf.URL()
	} else {
		c.frameURL = ""
	}
	c.mu.Unlock()

	relay.FrameConstructed()
	logging.Info("frame created", "gen", gen)
	c.postUpdate(Update{})

	go c.pump(gen, t)

	time.AfterFunc(c.settleDelay, func() {
		if !c.current(gen) {
			return
		}
		relay.SettleElapsed()
		c.postUpdate(Update{})

		time.AfterFunc(pingDelay, func() {
			if !c.current(gen) {
				return
			}
			if err := c.disp.Send(context.Background(), bridge.Ping()); err != nil {
				logging.Warn("liveness probe failed", "err", err)
			}
		})
	})
}

// Reinitialize tears down the current session and replays construction from
// scratch: transport closed, debug log cleared, readiness reset. In-flight
// frame messages from the old session are dropped by the generation check.
func (c *Controller) Reinitialize() {
	c.mu.Lock()
	t := c.transport
	c.transport = nil
	c.mu.Unlock()

	if t != nil {
		_ = t.Close()
	}
	c.debugLog.Clear()
	logging.Info("reinitializing frame")
	c.Initialize()
}

// Close tears the session down for good.
func (c *Controller) Close() {
	c.mu.Lock()
	c.gen++ // orphan any running pump
	t := c.transport
	c.transport = nil
	c.mu.Unlock()
	if t != nil {
		_ = t.Close()
	}
}

// pump relays frame events for one session generation. Events arriving
// after the generation is superseded are ignored: the relay must never see
// traffic from a torn-down frame.
func (c *Controller) pump(gen int, t frame.Transport) {
	for raw := range t.Events() {
		c.mu.Lock()
		alive := c.gen == gen
		relay := c.relay
		c.mu.Unlock()
		if !alive {
			return
		}

		before := relay.Snapshot().Location
		relay.HandleRaw(raw)
		after := relay.Snapshot().Location

		if after != before {
			c.persistPosition(after)
		}
		c.postUpdate(Update{})
	}
}

// persistPosition records the new location for the loaded publication.
func (c *Controller) persistPosition(loc bridge.Location) {
	c.mu.Lock()
	pub := c.pubURL
	repo := c.positions
	c.mu.Unlock()
	if repo == nil || pub == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := repo.Upsert(ctx, store.Position{
		PublicationURL: pub,
		Href:           loc.Href,
		Progression:    loc.Progression,
	}); err != nil {
		logging.Warn("persist position", "err", err)
	}
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	relay := c.relay
	frameURL := c.frameURL
	pub := c.pubURL
	c.mu.Unlock()

	s := Snapshot{FrameURL: frameURL, PublicationURL: pub, DebugLog: c.debugLog.Snapshot()}
	if relay != nil {
		s.State = relay.Snapshot()
	}
	return s
}

// NextPage advances one page/spine step. Silently dropped while not ready.
func (c *Controller) NextPage(ctx context.Context) error {
	return c.send(ctx, bridge.Next())
}

// PrevPage retreats one page/spine step. Silently dropped while not ready.
func (c *Controller) PrevPage(ctx context.Context) error {
	return c.send(ctx, bridge.Prev())
}

// SetFontSize sets the reading font size, clamped to the advisory bounds.
func (c *Controller) SetFontSize(ctx context.Context, px int) error {
	return c.send(ctx, bridge.FontSize(bridge.ClampFontSize(px)))
}

// SetTheme sets the renderer color theme.
func (c *Controller) SetTheme(ctx context.Context, name string) error {
	return c.send(ctx, bridge.SetTheme(name))
}

// Load asks the renderer to open a publication. Returns bridge.ErrNotReady
// while the frame handshake is incomplete so the caller can surface it.
func (c *Controller) Load(ctx context.Context, url string) error {
	if err := c.send(ctx, bridge.LoadEpub(url)); err != nil {
		return err
	}
	c.mu.Lock()
	c.pubURL = url
	c.mu.Unlock()
	return nil
}

// ResumeHint returns the stored position for a publication, if any.
func (c *Controller) ResumeHint(ctx context.Context, url string) (store.Position, bool) {
	if c.positions == nil {
		return store.Position{}, false
	}
	p, err := c.positions.Get(ctx, url)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.Warn("resume lookup", "err", err)
		}
		return store.Position{}, false
	}
	return p, true
}

// AddBookmark saves the current location under the given label.
func (c *Controller) AddBookmark(ctx context.Context, label string) (store.Bookmark, error) {
	c.mu.Lock()
	pub := c.pubURL
	repo := c.bookmarks
	c.mu.Unlock()
	if repo == nil {
		return store.Bookmark{}, errors.New("bookmarks disabled")
	}
	if pub == "" {
		return store.Bookmark{}, errors.New("no publication loaded")
	}
	loc := c.Snapshot().Location
	return repo.Insert(ctx, store.Bookmark{
		PublicationURL: pub,
		Href:           loc.Href,
		Progression:    loc.Progression,
		Label:          label,
	})
}

// Bookmarks lists saved bookmarks for the loaded publication.
func (c *Controller) Bookmarks(ctx context.Context) ([]store.Bookmark, error) {
	c.mu.Lock()
	pub := c.pubURL
	repo := c.bookmarks
	c.mu.Unlock()
	if repo == nil || pub == "" {
		return nil, nil
	}
	return repo.ListByPublication(ctx, pub)
}

func (c *Controller) send(ctx context.Context, msg bridge.Message) error {
	c.mu.Lock()
	d := c.disp
	c.mu.Unlock()
	if d == nil {
		return bridge.ErrNotReady
	}
	return d.Send(ctx, msg)
}

// current reports whether gen is still the live session generation.
func (c *Controller) current(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

// postUpdate delivers an update without ever blocking relay or timer
// goroutines. Plain state pokes coalesce; notices must not be lost, so a
// full buffer sheds one state poke to make room.
func (c *Controller) postUpdate(u Update) {
	select {
	case c.updates <- u:
		return
	default:
	}
	if u.Notice == nil {
		return
	}
	select {
	case <-c.updates:
	default:
	}
	select {
	case c.updates <- u:
	default:
	}
}

// nopSink swallows commands when construction failed and no transport
// exists. The dispatcher's gate keeps anything from reaching it anyway;
// ping is the lone exception.
type nopSink struct{}

func (nopSink) Post(context.Context, bridge.Message) error { return nil }
