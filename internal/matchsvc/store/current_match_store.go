package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/jackc/pgx/v5"
)

const currentMatchColumns = `id, user_id, slot_id, game_id, match_imminent, is_matched, created_at, updated_at`

// unique index on current_matches(user_id), see db/schema.sql
const uniqueCurrentMatchUser = "unique_current_match_user"

type PgCurrentMatchStore struct {
	db DBTX
}

func NewCurrentMatchStore(db DBTX) *PgCurrentMatchStore {
	return &PgCurrentMatchStore{db: db}
}

func (s *PgCurrentMatchStore) FindByID(ctx context.Context, id int64) (*models.CurrentMatch, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+currentMatchColumns+`
		FROM current_matches
		WHERE id = $1
	`, id)
	return scanCurrentMatch(row)
}

func (s *PgCurrentMatchStore) FindByUserID(ctx context.Context, userID int64) (*models.CurrentMatch, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+currentMatchColumns+`
		FROM current_matches
		WHERE user_id = $1
		LIMIT 1
	`, userID)
	return scanCurrentMatch(row)
}

func (s *PgCurrentMatchStore) FindAllBySlotID(ctx context.Context, slotID int64) ([]*models.CurrentMatch, error) {
	return s.queryAll(ctx, `
		SELECT `+currentMatchColumns+`
		FROM current_matches
		WHERE slot_id = $1
		ORDER BY id
	`, slotID)
}

func (s *PgCurrentMatchStore) FindAllByGameID(ctx context.Context, gameID int64) ([]*models.CurrentMatch, error) {
	return s.queryAll(ctx, `
		SELECT `+currentMatchColumns+`
		FROM current_matches
		WHERE game_id = $1
		ORDER BY id
	`, gameID)
}

func (s *PgCurrentMatchStore) FindAllOrderByIDDesc(ctx context.Context, limit, offset int) ([]*models.CurrentMatch, error) {
	return s.queryAll(ctx, `
		SELECT `+currentMatchColumns+`
		FROM current_matches
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
}

func (s *PgCurrentMatchStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM current_matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count current matches: %w", err)
	}
	return count, nil
}

func (s *PgCurrentMatchStore) Save(ctx context.Context, cm *models.CurrentMatch) (*models.CurrentMatch, error) {
	var row pgx.Row
	if cm.ID == 0 {
		row = s.db.QueryRow(ctx, `
			INSERT INTO current_matches (user_id, slot_id, game_id, match_imminent, is_matched)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+currentMatchColumns,
			cm.UserID, cm.SlotID, cm.GameID, cm.MatchImminent, cm.IsMatched)
	} else {
		row = s.db.QueryRow(ctx, `
			UPDATE current_matches
			SET user_id = $2, slot_id = $3, game_id = $4, match_imminent = $5, is_matched = $6, updated_at = now()
			WHERE id = $1
			RETURNING `+currentMatchColumns,
			cm.ID, cm.UserID, cm.SlotID, cm.GameID, cm.MatchImminent, cm.IsMatched)
	}

	saved, err := scanCurrentMatch(row)
	if err != nil {
		if isUniqueViolation(err, uniqueCurrentMatchUser) {
			return nil, fmt.Errorf("user %d: %w", cm.UserID, ErrDuplicate)
		}
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("current match %d vanished during update", cm.ID)
	}
	return saved, nil
}

func (s *PgCurrentMatchStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM current_matches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete current match %d: %w", id, err)
	}
	return nil
}

func (s *PgCurrentMatchStore) DeleteByUserID(ctx context.Context, userID int64) (*models.CurrentMatch, error) {
	row := s.db.QueryRow(ctx, `
		DELETE FROM current_matches
		WHERE user_id = $1
		RETURNING `+currentMatchColumns,
		userID)
	return scanCurrentMatch(row)
}

func (s *PgCurrentMatchStore) queryAll(ctx context.Context, query string, args ...any) ([]*models.CurrentMatch, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query current matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.CurrentMatch
	for rows.Next() {
		cm, err := scanCurrentMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return matches, nil
}

func scanCurrentMatch(row pgx.Row) (*models.CurrentMatch, error) {
	cm := &models.CurrentMatch{}
	err := row.Scan(
		&cm.ID,
		&cm.UserID,
		&cm.SlotID,
		&cm.GameID,
		&cm.MatchImminent,
		&cm.IsMatched,
		&cm.CreatedAt,
		&cm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan current match: %w", err)
	}
	return cm, nil
}
