// apps/go-server/internal/history/store.go
//
// Archive of finished games (SQLite, table "games").
// Timestamps are stored as Unix milliseconds so ORDER BY sorts by time.
// Rooms call Record once a winner is decided; GET /games/recent reads back
// the newest rows. Live rooms are never persisted.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/abalone/apps/go-server/internal/game"
)

// DefaultLimit caps Recent when the caller passes no limit.
const DefaultLimit = 50

// Game is one archived result.
type Game struct {
	ID         string      `json:"id"`
	Room       string      `json:"room"`
	Winner     game.Player `json:"winner"`
	Scores     game.Scores `json:"scores"`
	Moves      int         `json:"moves"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts g, assigning an id when it has none.
func (s *Store) Record(ctx context.Context, g Game) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, room_code, winner, score_black, score_white, moves, started_at, finished_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		g.ID, g.Room, g.Winner.String(), g.Scores.Black, g.Scores.White, g.Moves,
		g.StartedAt.UnixMilli(), g.FinishedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.Room, err)
	}
	return nil
}

// Recent returns up to limit games, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_code, winner, score_black, score_white, moves, started_at, finished_at
		FROM games
		ORDER BY finished_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent games: %w", err)
	}
	defer rows.Close()

	out := make([]Game, 0, limit)
	for rows.Next() {
		var (
			g                 Game
			winner            string
			started, finished int64
		)
		if err := rows.Scan(&g.ID, &g.Room, &winner, &g.Scores.Black, &g.Scores.White, &g.Moves, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		if g.Winner, err = game.ParsePlayer(winner); err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		g.StartedAt = time.UnixMilli(started).UTC()
		g.FinishedAt = time.UnixMilli(finished).UTC()
		out = append(out, g)
	}
	return out, rows.Err()
}
