// Package memory keeps the match service entities in process memory. It backs
// the service in tests and in local runs without postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/avvvet/arcade-services/internal/matchsvc/store"
)

type state struct {
	users          map[int64]*models.User
	slots          map[int64]*models.Slot
	games          map[int64]*models.Game
	slotTeamUsers  map[int64]*models.SlotTeamUser
	currentMatches map[int64]*models.CurrentMatch
	nextMatchID    int64
}

func newState() *state {
	return &state{
		users:          make(map[int64]*models.User),
		slots:          make(map[int64]*models.Slot),
		games:          make(map[int64]*models.Game),
		slotTeamUsers:  make(map[int64]*models.SlotTeamUser),
		currentMatches: make(map[int64]*models.CurrentMatch),
		nextMatchID:    1,
	}
}

// clone copies the current matches deeply. The reference entities are never
// mutated through the stores, so their maps are copied shallowly.
func (s *state) clone() *state {
	c := &state{
		users:          make(map[int64]*models.User, len(s.users)),
		slots:          make(map[int64]*models.Slot, len(s.slots)),
		games:          make(map[int64]*models.Game, len(s.games)),
		slotTeamUsers:  make(map[int64]*models.SlotTeamUser, len(s.slotTeamUsers)),
		currentMatches: make(map[int64]*models.CurrentMatch, len(s.currentMatches)),
		nextMatchID:    s.nextMatchID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.games {
		c.games[k] = v
	}
	for k, v := range s.slotTeamUsers {
		c.slotTeamUsers[k] = v
	}
	for k, v := range s.currentMatches {
		c.currentMatches[k] = v.Clone()
	}
	return c
}

// Store is an in-memory implementation of every match service store.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func New() *Store {
	return &Store{st: newState(), now: time.Now}
}

// WithinTx runs fn against a private copy of the data and publishes the copy
// only when fn succeeds. Transactions are serialized.
func (m *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.st.clone()
	if err := fn(ctx, m.stores(work)); err != nil {
		return err
	}
	m.st = work
	return nil
}

func (m *Store) stores(st *state) store.Stores {
	return store.Stores{
		CurrentMatches: &currentMatchStore{st: st, now: m.now},
		Users:          &userStore{st: st},
		Games:          &gameStore{st: st},
		Slots:          &slotStore{st: st},
		SlotTeamUsers:  &slotTeamUserStore{st: st},
	}
}

func (m *Store) PutUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.users[u.ID] = &u
}

func (m *Store) PutSlot(s models.Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.slots[s.ID] = &s
}

func (m *Store) PutGame(g models.Game) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.games[g.ID] = &g
}

func (m *Store) PutSlotTeamUser(stu models.SlotTeamUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.slotTeamUsers[stu.ID] = &stu
}

// CurrentMatches returns a copy of every stored current match ordered by id.
func (m *Store) CurrentMatches() []models.CurrentMatch {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.CurrentMatch, 0, len(m.st.currentMatches))
	for _, cm := range m.st.currentMatches {
		out = append(out, *cm.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type userStore struct{ st *state }

func (s *userStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.st.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (s *userStore) FindByIntraID(_ context.Context, intraID string) (*models.User, error) {
	for _, u := range s.st.users {
		if u.IntraID == intraID {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

type slotStore struct{ st *state }

func (s *slotStore) FindByID(_ context.Context, id int64) (*models.Slot, error) {
	slot, ok := s.st.slots[id]
	if !ok {
		return nil, nil
	}
	c := *slot
	return &c, nil
}

type gameStore struct{ st *state }

func (s *gameStore) FindByID(_ context.Context, id int64) (*models.Game, error) {
	g, ok := s.st.games[id]
	if !ok {
		return nil, nil
	}
	c := *g
	return &c, nil
}

type slotTeamUserStore struct{ st *state }

func (s *slotTeamUserStore) FindAllBySlotID(_ context.Context, slotID int64) ([]*models.SlotTeamUser, error) {
	var out []*models.SlotTeamUser
	for _, stu := range s.st.slotTeamUsers {
		if stu.SlotID == slotID {
			c := *stu
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
