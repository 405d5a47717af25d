package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/jackc/pgx/v5"
)

type PgSlotStore struct {
	db DBTX
}

func NewSlotStore(db DBTX) *PgSlotStore {
	return &PgSlotStore{db: db}
}

func (s *PgSlotStore) FindByID(ctx context.Context, slotID int64) (*models.Slot, error) {
	query := `
		SELECT id, table_id, time, game_ppp, head_count, type, created_at, updated_at
		FROM slots
		WHERE id = $1
	`

	var slot models.Slot
	err := s.db.QueryRow(ctx, query, slotID).Scan(
		&slot.ID,
		&slot.TableID,
		&slot.Time,
		&slot.GamePpp,
		&slot.HeadCount,
		&slot.Type,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get slot by ID: %w", err)
	}

	return &slot, nil
}
