package bridge

import (
	"encoding/json"
	"fmt"
)

// EventType identifies a frame→host notification.
type EventType string

const (
	EventStatus          EventType = "status"
	EventInitialized     EventType = "initialized"
	EventPong            EventType = "pong"
	EventReady           EventType = "ready"
	EventError           EventType = "error"
	EventLocationChanged EventType = "locationChanged"
)

// Location is the current reading position as reported by the renderer.
// Progression is computed inside the renderer and may be absent until its
// background location index finishes; decode defaults it to 0.0.
type Location struct {
	Href        string  `json:"href"`
	Progression float64 `json:"progression"`
}

// Event is a frame→host notification. Immutable.
type Event struct {
	Type     EventType `json:"type"`
	Message  string    `json:"message,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// Known reports whether the event type belongs to the closed vocabulary.
// Unknown types are logged and ignored by the relay, never fatal.
func (e Event) Known() bool {
	switch e.Type {
	case EventStatus, EventInitialized, EventPong, EventReady, EventError, EventLocationChanged:
		return true
	}
	return false
}

// DecodeEvent parses a raw frame message. The host channel also carries
// unrelated browser traffic, so anything that is not a JSON object with a
// string "type" field is reported as malformed and silently dropped by the
// caller. A well-formed event with an unrecognized type decodes fine; the
// relay decides what to do with it.
func DecodeEvent(raw []byte) (Event, error) {
	var probe struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if probe.Type == nil || *probe.Type == "" {
		return Event{}, fmt.Errorf("decode event: missing type field")
	}

	var e Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return Event{}, fmt.Errorf("decode event %q: %w", *probe.Type, err)
	}
	return e, nil
}
