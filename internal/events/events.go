// apps/go-server/internal/events/events.go
//
// Room lifecycle events.
// Rooms publish created / started / game-over / closed notices so other
// services (stats, moderation) can follow along. Publishing is best effort:
// failures are returned for logging and never affect a room.
//
// Subjects: abalone.room.created, abalone.room.started,
// abalone.game.over, abalone.room.closed.

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/robalobadob/abalone/apps/go-server/internal/game"
)

// Kind names an event and doubles as the last part of its subject.
type Kind string

const (
	RoomCreated Kind = "room.created"
	RoomStarted Kind = "room.started"
	GameOver    Kind = "game.over"
	RoomClosed  Kind = "room.closed"
)

// Event is the JSON body of every published message.
type Event struct {
	Kind   Kind         `json:"kind"`
	Room   string       `json:"room"`
	Winner game.Player  `json:"winner,omitempty"`
	Scores *game.Scores `json:"scores,omitempty"`
	Reason string       `json:"reason,omitempty"`
	At     time.Time    `json:"at"`
}

// Subject returns the NATS subject for e under prefix.
func (e Event) Subject(prefix string) string { return prefix + "." + string(e.Kind) }

// Publisher delivers events somewhere.
type Publisher interface {
	Publish(e Event) error
	Close()
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(Event) error { return nil }
func (Nop) Close()              {}

// NATS publishes events as JSON on a NATS connection.
type NATS struct {
	nc     *nats.Conn
	prefix string
}

// DialNATS connects to url. The connection reconnects on its own; a broker
// outage only makes Publish fail.
func DialNATS(url, name string) (*NATS, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return &NATS{nc: nc, prefix: "abalone"}, nil
}

func (n *NATS) Publish(e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := n.nc.Publish(e.Subject(n.prefix), data); err != nil {
		return fmt.Errorf("publish %s: %w", e.Kind, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (n *NATS) Close() {
	if err := n.nc.Drain(); err != nil {
		n.nc.Close()
	}
}
