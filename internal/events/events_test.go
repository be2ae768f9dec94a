package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/abalone/apps/go-server/internal/game"
)

func TestEventEncoding(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := Event{Kind: GameOver, Room: "AB2C", Winner: game.White, Scores: &game.Scores{Black: 2, White: 6}, At: at}
	assert.Equal(t, "abalone.game.over", e.Subject("abalone"))

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"game.over","room":"AB2C","winner":"W","scores":{"B":2,"W":6},"at":"2026-01-02T03:04:05Z"}`, string(raw))

	raw, err = json.Marshal(Event{Kind: RoomClosed, Room: "AB2C", Reason: "Game over", At: at})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"room.closed","room":"AB2C","reason":"Game over","at":"2026-01-02T03:04:05Z"}`, string(raw))
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(Event{Kind: RoomCreated}))
	p.Close()
}

func TestDialNATSFailsWithoutBroker(t *testing.T) {
	_, err := DialNATS("nats://127.0.0.1:1", "test")
	assert.Error(t, err)
}
