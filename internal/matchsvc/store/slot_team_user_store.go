package store

import (
	"context"
	"fmt"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
)

type PgSlotTeamUserStore struct {
	db DBTX
}

func NewSlotTeamUserStore(db DBTX) *PgSlotTeamUserStore {
	return &PgSlotTeamUserStore{db: db}
}

func (s *PgSlotTeamUserStore) FindAllBySlotID(ctx context.Context, slotID int64) ([]*models.SlotTeamUser, error) {
	query := `
		SELECT id, slot_id, team_id, user_id, created_at
		FROM slot_team_users
		WHERE slot_id = $1
		ORDER BY id
	`

	rows, err := s.db.Query(ctx, query, slotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query slot team users: %w", err)
	}
	defer rows.Close()

	var members []*models.SlotTeamUser
	for rows.Next() {
		var stu models.SlotTeamUser
		err := rows.Scan(
			&stu.ID,
			&stu.SlotID,
			&stu.TeamID,
			&stu.UserID,
			&stu.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, &stu)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return members, nil
}
