// apps/go-server/internal/protocol/protocol.go
//
// Wire contracts for the /ws endpoint.
// Every frame is one JSON object with a "type" discriminator and the
// type's fields alongside it (no nested payload).
//
// Client → server: create_room, join_room, reconnect, execute_move, chat.
// Server → client: room_created, room_joined, opponent_joined, game_start,
// game_state, move_rejected, chat, opponent_disconnected,
// opponent_reconnected, room_closed, error.

package protocol

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/robalobadob/abalone/apps/go-server/internal/game"
)

// Type is the message discriminator.
type Type string

// Client message types.
const (
	CreateRoom  Type = "create_room"
	JoinRoom    Type = "join_room"
	Reconnect   Type = "reconnect"
	ExecuteMove Type = "execute_move"
	Chat        Type = "chat"
)

// Server message types. Chat is shared with the client direction.
const (
	RoomCreated          Type = "room_created"
	RoomJoined           Type = "room_joined"
	OpponentJoined       Type = "opponent_joined"
	GameStart            Type = "game_start"
	GameState            Type = "game_state"
	MoveRejected         Type = "move_rejected"
	OpponentDisconnected Type = "opponent_disconnected"
	OpponentReconnected  Type = "opponent_reconnected"
	RoomClosed           Type = "room_closed"
	Error                Type = "error"
)

// Parse failures. The messages go back to the client as-is.
var (
	ErrInvalidJSON = errors.New("Invalid JSON")
	ErrUnknownType = errors.New("Unknown message type")
)

// ClientMessage is a decoded inbound frame. Only the fields of its Type
// are meaningful.
type ClientMessage struct {
	Type     Type
	Code     string
	PlayerID string
	Move     game.Move
	Text     string
}

type inbound struct {
	Type     Type            `json:"type"`
	Code     string          `json:"code"`
	PlayerID string          `json:"playerId"`
	Move     json.RawMessage `json:"move"`
	Text     string          `json:"text"`
}

// Parse decodes one inbound frame. Malformed JSON, a missing move on
// execute_move and field type mismatches are ErrInvalidJSON; anything
// with an unrecognised type is ErrUnknownType.
func Parse(raw []byte) (ClientMessage, error) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return ClientMessage{}, ErrInvalidJSON
	}
	msg := ClientMessage{Type: in.Type, Code: in.Code, PlayerID: in.PlayerID, Text: in.Text}
	switch in.Type {
	case CreateRoom, JoinRoom, Reconnect, Chat:
		return msg, nil
	case ExecuteMove:
		if len(in.Move) == 0 || string(in.Move) == "null" {
			return ClientMessage{}, ErrInvalidJSON
		}
		if err := json.Unmarshal(in.Move, &msg.Move); err != nil {
			return ClientMessage{}, ErrInvalidJSON
		}
		return msg, nil
	}
	return ClientMessage{}, ErrUnknownType
}

// Message is an outbound frame. Zero fields are omitted so each type
// carries only its own.
type Message struct {
	Type      Type           `json:"type"`
	Code      string         `json:"code,omitempty"`
	PlayerID  string         `json:"playerId,omitempty"`
	Player    game.Player    `json:"player,omitempty"`
	State     *game.Snapshot `json:"state,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Text      string         `json:"text,omitempty"`
	From      game.Player    `json:"from,omitempty"`
	Timestamp int64          `json:"timestamp,omitempty"`
	Message   string         `json:"message,omitempty"`
}

func RoomCreatedMsg(code, playerID string) Message {
	return Message{Type: RoomCreated, Code: code, PlayerID: playerID}
}

func RoomJoinedMsg(code, playerID string, p game.Player) Message {
	return Message{Type: RoomJoined, Code: code, PlayerID: playerID, Player: p}
}

func OpponentJoinedMsg() Message { return Message{Type: OpponentJoined} }

func GameStartMsg(p game.Player, s game.State) Message {
	snap := s.Snapshot()
	return Message{Type: GameStart, Player: p, State: &snap}
}

func GameStateMsg(s game.State) Message {
	snap := s.Snapshot()
	return Message{Type: GameState, State: &snap}
}

func MoveRejectedMsg(reason string) Message { return Message{Type: MoveRejected, Reason: reason} }

// ChatMsg stamps the relay time in Unix milliseconds.
func ChatMsg(text string, from game.Player, at time.Time) Message {
	return Message{Type: Chat, Text: text, From: from, Timestamp: at.UnixMilli()}
}

func OpponentDisconnectedMsg() Message { return Message{Type: OpponentDisconnected} }

func OpponentReconnectedMsg() Message { return Message{Type: OpponentReconnected} }

func RoomClosedMsg(reason string) Message { return Message{Type: RoomClosed, Reason: reason} }

func ErrorMsg(message string) Message { return Message{Type: Error, Message: message} }
