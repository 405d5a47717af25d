package store

import (
	"context"
	"errors"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
)

// ErrDuplicate is returned by Save when a user already holds a current match.
var ErrDuplicate = errors.New("current match already exists for user")

// Finders return (nil, nil) when the row does not exist.

type CurrentMatchStore interface {
	FindByID(ctx context.Context, id int64) (*models.CurrentMatch, error)
	FindByUserID(ctx context.Context, userID int64) (*models.CurrentMatch, error)
	FindAllBySlotID(ctx context.Context, slotID int64) ([]*models.CurrentMatch, error)
	FindAllByGameID(ctx context.Context, gameID int64) ([]*models.CurrentMatch, error)
	FindAllOrderByIDDesc(ctx context.Context, limit, offset int) ([]*models.CurrentMatch, error)
	Count(ctx context.Context) (int64, error)
	// Save inserts cm when cm.ID is zero and updates it otherwise. The stored
	// row, including generated id and timestamps, is returned.
	Save(ctx context.Context, cm *models.CurrentMatch) (*models.CurrentMatch, error)
	Delete(ctx context.Context, id int64) error
	// DeleteByUserID removes the user's match and returns it, or nil when there was none.
	DeleteByUserID(ctx context.Context, userID int64) (*models.CurrentMatch, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByIntraID(ctx context.Context, intraID string) (*models.User, error)
}

type GameStore interface {
	FindByID(ctx context.Context, id int64) (*models.Game, error)
}

type SlotStore interface {
	FindByID(ctx context.Context, id int64) (*models.Slot, error)
}

type SlotTeamUserStore interface {
	FindAllBySlotID(ctx context.Context, slotID int64) ([]*models.SlotTeamUser, error)
}

// Stores is the set of stores bound to one transaction.
type Stores struct {
	CurrentMatches CurrentMatchStore
	Users          UserStore
	Games          GameStore
	Slots          SlotStore
	SlotTeamUsers  SlotTeamUserStore
}

// TxManager runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
