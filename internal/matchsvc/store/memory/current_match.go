package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/avvvet/arcade-services/internal/matchsvc/store"
)

type currentMatchStore struct {
	st  *state
	now func() time.Time
}

func (s *currentMatchStore) FindByID(_ context.Context, id int64) (*models.CurrentMatch, error) {
	cm, ok := s.st.currentMatches[id]
	if !ok {
		return nil, nil
	}
	return cm.Clone(), nil
}

func (s *currentMatchStore) FindByUserID(_ context.Context, userID int64) (*models.CurrentMatch, error) {
	for _, cm := range s.sorted(false) {
		if cm.UserID == userID {
			return cm.Clone(), nil
		}
	}
	return nil, nil
}

func (s *currentMatchStore) FindAllBySlotID(_ context.Context, slotID int64) ([]*models.CurrentMatch, error) {
	return s.filter(func(cm *models.CurrentMatch) bool { return cm.SlotID == slotID }), nil
}

func (s *currentMatchStore) FindAllByGameID(_ context.Context, gameID int64) ([]*models.CurrentMatch, error) {
	return s.filter(func(cm *models.CurrentMatch) bool {
		return cm.GameID != nil && *cm.GameID == gameID
	}), nil
}

func (s *currentMatchStore) FindAllOrderByIDDesc(_ context.Context, limit, offset int) ([]*models.CurrentMatch, error) {
	all := s.sorted(true)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	out := make([]*models.CurrentMatch, 0, end-offset)
	for _, cm := range all[offset:end] {
		out = append(out, cm.Clone())
	}
	return out, nil
}

func (s *currentMatchStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.st.currentMatches)), nil
}

func (s *currentMatchStore) Save(_ context.Context, cm *models.CurrentMatch) (*models.CurrentMatch, error) {
	for _, existing := range s.st.currentMatches {
		if existing.UserID == cm.UserID && existing.ID != cm.ID {
			return nil, fmt.Errorf("user %d: %w", cm.UserID, store.ErrDuplicate)
		}
	}

	now := s.now()
	saved := cm.Clone()
	if saved.ID == 0 {
		saved.ID = s.st.nextMatchID
		s.st.nextMatchID++
		saved.CreatedAt = now
	} else {
		prev, ok := s.st.currentMatches[saved.ID]
		if !ok {
			return nil, fmt.Errorf("current match %d vanished during update", saved.ID)
		}
		saved.CreatedAt = prev.CreatedAt
	}
	saved.UpdatedAt = now

	s.st.currentMatches[saved.ID] = saved
	return saved.Clone(), nil
}

func (s *currentMatchStore) Delete(_ context.Context, id int64) error {
	delete(s.st.currentMatches, id)
	return nil
}

func (s *currentMatchStore) DeleteByUserID(_ context.Context, userID int64) (*models.CurrentMatch, error) {
	for id, cm := range s.st.currentMatches {
		if cm.UserID == userID {
			delete(s.st.currentMatches, id)
			return cm, nil
		}
	}
	return nil, nil
}

func (s *currentMatchStore) filter(keep func(*models.CurrentMatch) bool) []*models.CurrentMatch {
	var out []*models.CurrentMatch
	for _, cm := range s.sorted(false) {
		if keep(cm) {
			out = append(out, cm.Clone())
		}
	}
	return out
}

func (s *currentMatchStore) sorted(desc bool) []*models.CurrentMatch {
	all := make([]*models.CurrentMatch, 0, len(s.st.currentMatches))
	for _, cm := range s.st.currentMatches {
		all = append(all, cm)
	}
	sort.Slice(all, func(i, j int) bool {
		if desc {
			return all[i].ID > all[j].ID
		}
		return all[i].ID < all[j].ID
	})
	return all
}
