package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/jackc/pgx/v5"
)

type PgGameStore struct {
	db DBTX
}

func NewGameStore(db DBTX) *PgGameStore {
	return &PgGameStore{db: db}
}

func (s *PgGameStore) FindByID(ctx context.Context, gameID int64) (*models.Game, error) {
	query := `
		SELECT id, slot_id, type, time, status, created_at, updated_at
		FROM games
		WHERE id = $1
	`

	game := &models.Game{}
	err := s.db.QueryRow(ctx, query, gameID).Scan(
		&game.ID,
		&game.SlotID,
		&game.Type,
		&game.Time,
		&game.Status,
		&game.CreatedAt,
		&game.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Game not found
		}
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	return game, nil
}
