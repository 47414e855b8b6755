package frame

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/alvinow/folio/internal/bridge"
	"github.com/alvinow/folio/internal/logging"
)

const (
	// pollWait is how long /poll parks before returning 204 so the page
	// re-polls. Short enough that page teardown is noticed quickly.
	pollWait = 25 * time.Second

	// maxEventBody bounds a single frame→host event. Events are small tagged
	// records; anything bigger is not ours.
	maxEventBody = 64 * 1024
)

// WebFrame hosts the renderer's bootstrap page on a loopback listener and
// bridges messages over plain HTTP: the page long-polls /poll for outbound
// commands and POSTs inbound events to /events. Each frame session carries a
// random ID; traffic from a torn-down session is dropped at the door.
type WebFrame struct {
	backend   Backend
	session   string
	scriptURL string

	ln     net.Listener
	srv    *http.Server
	page   []byte
	out    chan []byte
	events chan []byte
	done   chan struct{}
}

// NewWebFrame builds the frame: generates the bootstrap page, binds the
// loopback listener, and starts serving. The frame's script environment is
// not yet responsive when this returns; that is what the handshake is for.
func NewWebFrame(backend Backend, listenAddr, scriptURL string) (*WebFrame, error) {
	session := uuid.NewString()
	page, err := RenderBootstrap(backend, session, scriptURL)
	if err != nil {
		return nil, err
	}

	if listenAddr == "" {
		listenAddr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("register frame view: %w", err)
	}

	f := &WebFrame{
		backend:   backend,
		session:   session,
		scriptURL: scriptURL,
		ln:        ln,
		page:      page,
		out:       make(chan []byte, 16),
		events:    make(chan []byte, 64),
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", f.handlePage)
	mux.HandleFunc("GET /poll", f.handlePoll)
	mux.HandleFunc("POST /events", f.handleEvents)
	f.srv = &http.Server{Handler: mux}

	go func() {
		if err := f.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Error("frame server stopped", "err", err)
		}
	}()

	logging.Info("frame serving", "backend", backend, "addr", ln.Addr().String(), "session", session)
	return f, nil
}

// URL returns the address of the bootstrap page, to be opened in the
// embedding browser view.
func (f *WebFrame) URL() string {
	return fmt.Sprintf("http://%s/", f.ln.Addr().String())
}

// Session returns the frame session ID.
func (f *WebFrame) Session() string { return f.session }

// Post queues a command for the page's next poll.
func (f *WebFrame) Post(ctx context.Context, msg bridge.Message) error {
	raw, err := msg.Encode()
	if err != nil {
		return err
	}
	select {
	case <-f.done:
		return ErrClosed
	default:
	}
	select {
	case f.out <- raw:
		return nil
	case <-f.done:
		return ErrClosed
	case <-ctx.Done():
		return fmt.Errorf("post %s: %w", msg.Action, ctx.Err())
	}
}

// Events returns the inbound raw message stream.
func (f *WebFrame) Events() <-chan []byte { return f.events }

// Close shuts the server down and closes the event stream. Events POSTed
// after Close are answered 410 and dropped.
func (f *WebFrame) Close() error {
	select {
	case <-f.done:
		return nil
	default:
	}
	close(f.done)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := f.srv.Shutdown(ctx)
	close(f.events)
	return err
}

func (f *WebFrame) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(f.page)
}

// handlePoll parks until a command is queued, the wait expires (204), or the
// frame closes (410).
func (f *WebFrame) handlePoll(w http.ResponseWriter, r *http.Request) {
	if !f.sessionOK(r) {
		http.Error(w, "stale session", http.StatusGone)
		return
	}
	select {
	case raw := <-f.out:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	case <-time.After(pollWait):
		w.WriteHeader(http.StatusNoContent)
	case <-f.done:
		http.Error(w, "frame closed", http.StatusGone)
	case <-r.Context().Done():
	}
}

func (f *WebFrame) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !f.sessionOK(r) {
		http.Error(w, "stale session", http.StatusGone)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	select {
	case f.events <- body:
		w.WriteHeader(http.StatusAccepted)
	case <-f.done:
		http.Error(w, "frame closed", http.StatusGone)
	}
}

// sessionOK is the liveness/mount check: only the currently mounted page's
// session may exchange messages.
func (f *WebFrame) sessionOK(r *http.Request) bool {
	if r.URL.Query().Get("session") != f.session {
		return false
	}
	select {
	case <-f.done:
		return false
	default:
		return true
	}
}
