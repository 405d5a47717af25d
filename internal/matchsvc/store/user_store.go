package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"

	"github.com/jackc/pgx/v5"
)

type PgUserStore struct {
	db DBTX
}

func NewUserStore(db DBTX) *PgUserStore {
	return &PgUserStore{db: db}
}

const userColumns = `id, intra_id, email, image_uri, created_at, updated_at`

func (r *PgUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE id = $1
    `, id)
	return scanUser(row)
}

func (r *PgUserStore) FindByIntraID(ctx context.Context, intraID string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE intra_id = $1
    `, intraID)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.IntraID,
		&u.Email,
		&u.ImageURI,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}
