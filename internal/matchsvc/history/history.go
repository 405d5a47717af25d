// Package history archives current matches after they are removed so admins
// can see who played where. Entries expire after a configured TTL.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/avvvet/arcade-services/internal/db"
	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "current_match_history"

type Entry struct {
	CurrentMatchID int64     `bson:"current_match_id" json:"currentMatchId"`
	UserID         int64     `bson:"user_id" json:"userId"`
	SlotID         int64     `bson:"slot_id" json:"slotId"`
	GameID         *int64    `bson:"game_id,omitempty" json:"gameId,omitempty"`
	MatchImminent  bool      `bson:"match_imminent" json:"matchImminent"`
	IsMatched      bool      `bson:"is_matched" json:"isMatched"`
	Reason         string    `bson:"reason" json:"reason"`
	RemovedAt      time.Time `bson:"removed_at" json:"removedAt"`
	ExpiresAt      time.Time `bson:"expires_at" json:"-"`
}

// NewEntries converts removed matches into archive entries.
func NewEntries(matches []*models.CurrentMatch, reason string, now time.Time, ttl time.Duration) []Entry {
	entries := make([]Entry, 0, len(matches))
	for _, cm := range matches {
		entries = append(entries, Entry{
			CurrentMatchID: cm.ID,
			UserID:         cm.UserID,
			SlotID:         cm.SlotID,
			GameID:         cm.GameID,
			MatchImminent:  cm.MatchImminent,
			IsMatched:      cm.IsMatched,
			Reason:         reason,
			RemovedAt:      now,
			ExpiresAt:      now.Add(ttl),
		})
	}
	return entries
}

type Store struct {
	collection *mongo.Collection
	ttl        time.Duration
	now        func() time.Time
}

// NewStore prepares the history collection, including its TTL index.
func NewStore(ctx context.Context, database *mongo.Database, ttl time.Duration) (*Store, error) {
	if err := db.CreateTTLIndexForCollection(ctx, database, CollectionName); err != nil {
		return nil, err
	}
	return &Store{
		collection: database.Collection(CollectionName),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (s *Store) RecordRemoved(ctx context.Context, matches []*models.CurrentMatch, reason string) error {
	entries := NewEntries(matches, reason, s.now(), s.ttl)
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("history insert failed: %w", err)
	}
	return nil
}

// FindByUser returns the user's archived matches, most recent first.
func (s *Store) FindByUser(ctx context.Context, userID int64, limit int64) ([]Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "removed_at", Value: -1}}).SetLimit(limit)

	cursor, err := s.collection.Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("history lookup failed: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []Entry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("history decode failed: %w", err)
	}
	return entries, nil
}
