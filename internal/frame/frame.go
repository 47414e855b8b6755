// Package frame constructs the embedded renderer frame and moves bridge
// traffic across its isolation boundary. The protocol itself lives in
// internal/bridge; this package only carries bytes.
//
// Two transports back the same protocol: webframe hosts a locally generated
// bootstrap page over a loopback listener, simframe is an in-process fake
// renderer for tests and demo mode.
package frame

import (
	"errors"
	"fmt"

	"github.com/alvinow/folio/internal/bridge"
)

// Backend selects which third-party rendering library the bootstrap page
// loads. The relay and dispatcher are identical either way.
type Backend string

const (
	BackendEpubJS  Backend = "epubjs"
	BackendReadium Backend = "readium"
)

// ParseBackend validates a backend name from config or flags.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case BackendEpubJS, BackendReadium:
		return Backend(name), nil
	}
	return "", fmt.Errorf("unknown renderer backend %q (want epubjs or readium)", name)
}

// ErrClosed is returned by Post after the transport is torn down.
var ErrClosed = errors.New("frame transport closed")

// Transport is the structured message channel between host and frame.
// Post delivers a host→frame command; Events yields raw frame→host
// messages, closed on teardown. Exactly one Transport exists per session;
// the controller owns it exclusively.
type Transport interface {
	bridge.Sink
	// Events returns the inbound raw message stream. Contents are untrusted:
	// the relay validates them at the boundary.
	Events() <-chan []byte
	// Close tears the frame down. In-flight frame messages arriving after
	// Close are dropped.
	Close() error
}

// compile-time interface checks
var (
	_ Transport = (*WebFrame)(nil)
	_ Transport = (*SimFrame)(nil)
)
