package store_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/avvvet/arcade-services/internal/matchsvc/db"
	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/avvvet/arcade-services/internal/matchsvc/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to TEST_DATABASE_URL, applies the schema and empties
// the tables. The test is skipped when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE current_matches, slot_team_users, games, slots, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO users (intra_id) VALUES ('alice'), ('bob');
		INSERT INTO slots (table_id, time, game_ppp, head_count, type) VALUES (1, now(), 1000, 2, 'SINGLE');
		INSERT INTO games (slot_id, type, time, status) VALUES (1, 'SINGLE', now(), 'LIVE');
		INSERT INTO slot_team_users (slot_id, team_id, user_id) VALUES (1, 1, 1), (1, 2, 2);
	`)
	require.NoError(t, err)
	return pool
}

func TestPgStores_CurrentMatchLifecycle(t *testing.T) {
	pool := newTestPool(t)
	tx := store.NewPgTxManager(pool)
	ctx := context.Background()

	err := tx.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		user, err := s.Users.FindByIntraID(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, user)

		slot, err := s.Slots.FindByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, slot)
		assert.Equal(t, models.GameTypeSingle, slot.Type)

		saved, err := s.CurrentMatches.Save(ctx, &models.CurrentMatch{UserID: user.ID, SlotID: slot.ID})
		require.NoError(t, err)
		assert.NotZero(t, saved.ID)

		gameID := int64(1)
		saved.GameID = &gameID
		saved.MatchImminent = true
		updated, err := s.CurrentMatches.Save(ctx, saved)
		require.NoError(t, err)
		assert.True(t, updated.MatchImminent)
		return nil
	})
	require.NoError(t, err)

	err = tx.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		byGame, err := s.CurrentMatches.FindAllByGameID(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, byGame, 1)

		members, err := s.SlotTeamUsers.FindAllBySlotID(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, members, 2)

		removed, err := s.CurrentMatches.DeleteByUserID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, removed)

		none, err := s.CurrentMatches.FindByUserID(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, none)
		return nil
	})
	require.NoError(t, err)
}

func TestPgStores_UniqueUserAndRollback(t *testing.T) {
	pool := newTestPool(t)
	tx := store.NewPgTxManager(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := tx.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		if _, err := s.CurrentMatches.Save(ctx, &models.CurrentMatch{UserID: 2, SlotID: 1}); err != nil {
			return err
		}
		_, err := s.CurrentMatches.Save(ctx, &models.CurrentMatch{UserID: 2, SlotID: 1})
		return err
	})
	assert.True(t, errors.Is(err, store.ErrDuplicate), "got %v", err)

	err = tx.WithinTx(ctx, func(ctx context.Context, s store.Stores) error {
		count, err := s.CurrentMatches.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
		return nil
	})
	require.NoError(t, err)
}
