package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avvvet/arcade-services/internal/comm"
	"github.com/avvvet/arcade-services/internal/matchsvc/dto"
	"github.com/avvvet/arcade-services/internal/matchsvc/models"
	"github.com/avvvet/arcade-services/internal/matchsvc/store"
	log "github.com/sirupsen/logrus"
)

// reasons stored with archived matches
const (
	RemovedByUser  = "removed-by-user"
	RemovedBySlot  = "removed-by-slot"
	RemovedByAdmin = "removed-by-admin"
)

// CurrentMatchService resolves users, slots and games for current match
// requests and keeps the current_matches rows in step. Every method runs in
// one transaction.
type CurrentMatchService struct {
	tx       store.TxManager
	notifier Notifier
	history  HistoryRecorder
}

func NewCurrentMatchService(tx store.TxManager, opts ...Option) *CurrentMatchService {
	s := &CurrentMatchService{tx: tx}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCurrentMatch puts the user into the slot with both flags cleared and no game.
func (s *CurrentMatchService) AddCurrentMatch(ctx context.Context, addDto dto.CurrentMatchAddDto) error {
	if addDto.Slot == nil {
		return fmt.Errorf("add current match: slot is required: %w", ErrInvalidRequest)
	}

	var saved *models.CurrentMatch
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		user, err := findUser(ctx, st, addDto.UserID)
		if err != nil {
			return err
		}
		slot, err := findSlot(ctx, st, addDto.Slot.ID)
		if err != nil {
			return err
		}

		saved, err = saveCurrentMatch(ctx, st, &models.CurrentMatch{
			UserID:        user.ID,
			SlotID:        slot.ID,
			MatchImminent: false,
			IsMatched:     false,
		})
		return err
	})
	if err != nil {
		return err
	}

	s.notify(ctx, comm.CurrentMatchEvent{
		Type:    comm.EventMatchAdded,
		UserIds: []int64{saved.UserID},
		SlotId:  saved.SlotID,
	})
	return nil
}

// ModifyCurrentMatch sets both flags on every current match of the slot.
func (s *CurrentMatchService) ModifyCurrentMatch(ctx context.Context, modifyDto dto.CurrentMatchModifyDto) error {
	var userIds []int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		matches, err := st.CurrentMatches.FindAllBySlotID(ctx, modifyDto.SlotID)
		if err != nil {
			return fmt.Errorf("find current matches for slot %d: %w", modifyDto.SlotID, err)
		}

		userIds = userIds[:0]
		for _, cm := range matches {
			cm.MatchImminent = modifyDto.MatchImminent
			cm.IsMatched = modifyDto.IsMatched
			if _, err := saveCurrentMatch(ctx, st, cm); err != nil {
				return err
			}
			userIds = append(userIds, cm.UserID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(userIds) > 0 {
		s.notify(ctx, comm.CurrentMatchEvent{
			Type:          comm.EventMatchModified,
			UserIds:       userIds,
			SlotId:        modifyDto.SlotID,
			MatchImminent: modifyDto.MatchImminent,
			IsMatched:     modifyDto.IsMatched,
		})
	}
	return nil
}

// SaveGameInCurrentMatch attaches the game to the user's current match. A
// user without a current match is reported as ErrNotFound.
func (s *CurrentMatchService) SaveGameInCurrentMatch(ctx context.Context, saveDto dto.CurrentMatchSaveGameDto) error {
	var saved *models.CurrentMatch
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		game, err := findGame(ctx, st, saveDto.GameID)
		if err != nil {
			return err
		}
		user, err := findUser(ctx, st, saveDto.UserID)
		if err != nil {
			return err
		}

		cm, err := st.CurrentMatches.FindByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("find current match for user %d: %w", user.ID, err)
		}
		if cm == nil {
			return fmt.Errorf("current match for user %d: %w", user.ID, ErrNotFound)
		}

		gameID := game.ID
		cm.GameID = &gameID
		saved, err = saveCurrentMatch(ctx, st, cm)
		return err
	})
	if err != nil {
		return err
	}

	s.notify(ctx, comm.CurrentMatchEvent{
		Type:          comm.EventGameAttached,
		UserIds:       []int64{saved.UserID},
		SlotId:        saved.SlotID,
		GameId:        saved.GameID,
		MatchImminent: saved.MatchImminent,
		IsMatched:     saved.IsMatched,
	})
	return nil
}

// FindCurrentMatchByUser returns nil without error when the user has no
// current match.
func (s *CurrentMatchService) FindCurrentMatchByUser(ctx context.Context, userDto dto.UserDto) (*dto.CurrentMatchDto, error) {
	var result *dto.CurrentMatchDto
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		cm, err := st.CurrentMatches.FindByUserID(ctx, userDto.ID)
		if err != nil {
			return fmt.Errorf("find current match for user %d: %w", userDto.ID, err)
		}
		if cm == nil {
			return nil
		}

		out, err := toCurrentMatchDto(ctx, st, cm)
		if err != nil {
			return err
		}
		result = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindCurrentMatchByIntraID fails when no user carries the intra id and
// returns nil when the user has no current match.
func (s *CurrentMatchService) FindCurrentMatchByIntraID(ctx context.Context, intraID string) (*dto.CurrentMatchDto, error) {
	var result *dto.CurrentMatchDto
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		user, err := st.Users.FindByIntraID(ctx, intraID)
		if err != nil {
			return fmt.Errorf("find user %q: %w", intraID, err)
		}
		if user == nil {
			return fmt.Errorf("user %q: %w", intraID, ErrNotFound)
		}

		cm, err := st.CurrentMatches.FindByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("find current match for user %d: %w", user.ID, err)
		}
		if cm == nil {
			return nil
		}

		out, err := toCurrentMatchDto(ctx, st, cm)
		if err != nil {
			return err
		}
		result = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *CurrentMatchService) FindCurrentMatchByGame(ctx context.Context, findDto dto.CurrentMatchFindDto) ([]dto.CurrentMatchDto, error) {
	result := []dto.CurrentMatchDto{}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		matches, err := st.CurrentMatches.FindAllByGameID(ctx, findDto.GameID)
		if err != nil {
			return fmt.Errorf("find current matches for game %d: %w", findDto.GameID, err)
		}
		result, err = toCurrentMatchDtos(ctx, st, matches)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveCurrentMatch deletes the user's current match, or when a slot id is
// given, the current match of every team member of that slot. UserID is
// ignored in the latter case.
func (s *CurrentMatchService) RemoveCurrentMatch(ctx context.Context, removeDto dto.CurrentMatchRemoveDto) error {
	var removed []*models.CurrentMatch
	reason := RemovedByUser
	if removeDto.SlotID != nil {
		reason = RemovedBySlot
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		removed = removed[:0]
		if removeDto.SlotID == nil {
			user, err := findUser(ctx, st, removeDto.UserID)
			if err != nil {
				return err
			}
			cm, err := st.CurrentMatches.DeleteByUserID(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("delete current match for user %d: %w", user.ID, err)
			}
			if cm != nil {
				removed = append(removed, cm)
			}
			return nil
		}

		members, err := st.SlotTeamUsers.FindAllBySlotID(ctx, *removeDto.SlotID)
		if err != nil {
			return fmt.Errorf("find team members of slot %d: %w", *removeDto.SlotID, err)
		}
		for _, member := range members {
			cm, err := st.CurrentMatches.DeleteByUserID(ctx, member.UserID)
			if err != nil {
				return fmt.Errorf("delete current match for user %d: %w", member.UserID, err)
			}
			if cm != nil {
				removed = append(removed, cm)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterRemove(ctx, removed, reason)
	return nil
}

func (s *CurrentMatchService) CreateCurrentMatchByAdmin(ctx context.Context, createDto dto.CurrentMatchCreateRequestDto) error {
	var saved *models.CurrentMatch
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		user, err := findUser(ctx, st, createDto.UserID)
		if err != nil {
			return err
		}
		slot, err := findSlot(ctx, st, createDto.SlotID)
		if err != nil {
			return err
		}

		cm := &models.CurrentMatch{
			UserID:        user.ID,
			SlotID:        slot.ID,
			MatchImminent: createDto.MatchImminent,
			IsMatched:     createDto.IsMatched,
		}
		if createDto.GameID != nil {
			game, err := findGame(ctx, st, *createDto.GameID)
			if err != nil {
				return err
			}
			gameID := game.ID
			cm.GameID = &gameID
		}

		saved, err = saveCurrentMatch(ctx, st, cm)
		return err
	})
	if err != nil {
		return err
	}

	s.notify(ctx, comm.CurrentMatchEvent{
		Type:          comm.EventMatchAdded,
		UserIds:       []int64{saved.UserID},
		SlotId:        saved.SlotID,
		GameId:        saved.GameID,
		MatchImminent: saved.MatchImminent,
		IsMatched:     saved.IsMatched,
	})
	return nil
}

func (s *CurrentMatchService) UpdateCurrentMatchByAdmin(ctx context.Context, updateDto dto.CurrentMatchUpdateRequestDto) error {
	var saved *models.CurrentMatch
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		cm, err := findCurrentMatch(ctx, st, updateDto.CurrentMatchID)
		if err != nil {
			return err
		}

		cm.MatchImminent = updateDto.MatchImminent
		cm.IsMatched = updateDto.IsMatched
		saved, err = saveCurrentMatch(ctx, st, cm)
		return err
	})
	if err != nil {
		return err
	}

	s.notify(ctx, comm.CurrentMatchEvent{
		Type:          comm.EventMatchModified,
		UserIds:       []int64{saved.UserID},
		SlotId:        saved.SlotID,
		GameId:        saved.GameID,
		MatchImminent: saved.MatchImminent,
		IsMatched:     saved.IsMatched,
	})
	return nil
}

func (s *CurrentMatchService) DeleteCurrentMatchByAdmin(ctx context.Context, deleteDto dto.CurrentMatchDeleteDto) error {
	var removed *models.CurrentMatch
	err := s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		cm, err := findCurrentMatch(ctx, st, deleteDto.CurrentMatchID)
		if err != nil {
			return err
		}
		if err := st.CurrentMatches.Delete(ctx, cm.ID); err != nil {
			return err
		}
		removed = cm
		return nil
	})
	if err != nil {
		return err
	}

	s.afterRemove(ctx, []*models.CurrentMatch{removed}, RemovedByAdmin)
	return nil
}

// FindCurrentMatchByAdmin lists every current match, newest id first.
func (s *CurrentMatchService) FindCurrentMatchByAdmin(ctx context.Context, pageReq dto.PageRequest) (dto.Page[dto.CurrentMatchDto], error) {
	req, err := pageReq.Normalize()
	if err != nil {
		return dto.Page[dto.CurrentMatchDto]{}, fmt.Errorf("%s: %w", err, ErrInvalidRequest)
	}

	var page dto.Page[dto.CurrentMatchDto]
	err = s.tx.WithinTx(ctx, func(ctx context.Context, st store.Stores) error {
		total, err := st.CurrentMatches.Count(ctx)
		if err != nil {
			return err
		}
		matches, err := st.CurrentMatches.FindAllOrderByIDDesc(ctx, req.Size, req.Offset())
		if err != nil {
			return fmt.Errorf("list current matches: %w", err)
		}
		items, err := toCurrentMatchDtos(ctx, st, matches)
		if err != nil {
			return err
		}
		page = dto.NewPage(items, req, total)
		return nil
	})
	if err != nil {
		return dto.Page[dto.CurrentMatchDto]{}, err
	}
	return page, nil
}

func (s *CurrentMatchService) afterRemove(ctx context.Context, removed []*models.CurrentMatch, reason string) {
	if len(removed) == 0 {
		return
	}

	if s.history != nil {
		if err := s.history.RecordRemoved(ctx, removed, reason); err != nil {
			log.WithField("reason", reason).Errorf("Error [CurrentMatchService.afterRemove] archiving %d matches: %s", len(removed), err)
		}
	}

	userIds := make([]int64, 0, len(removed))
	for _, cm := range removed {
		userIds = append(userIds, cm.UserID)
	}
	s.notify(ctx, comm.CurrentMatchEvent{
		Type:    comm.EventMatchRemoved,
		UserIds: userIds,
		SlotId:  removed[0].SlotID,
	})
}

// notify runs after commit, so a failure is logged and swallowed.
func (s *CurrentMatchService) notify(ctx context.Context, event comm.CurrentMatchEvent) {
	if s.notifier == nil {
		return
	}
	event.Timestamp = time.Now()
	if err := s.notifier.CurrentMatchChanged(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"event": event.Type,
			"users": event.UserIds,
		}).Errorf("Error [CurrentMatchService.notify] %s", err)
	}
}

func findUser(ctx context.Context, st store.Stores, id int64) (*models.User, error) {
	user, err := st.Users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return user, nil
}

func findSlot(ctx context.Context, st store.Stores, id int64) (*models.Slot, error) {
	slot, err := st.Slots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find slot %d: %w", id, err)
	}
	if slot == nil {
		return nil, fmt.Errorf("slot %d: %w", id, ErrNotFound)
	}
	return slot, nil
}

func findGame(ctx context.Context, st store.Stores, id int64) (*models.Game, error) {
	game, err := st.Games.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find game %d: %w", id, err)
	}
	if game == nil {
		return nil, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return game, nil
}

func findCurrentMatch(ctx context.Context, st store.Stores, id int64) (*models.CurrentMatch, error) {
	cm, err := st.CurrentMatches.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find current match %d: %w", id, err)
	}
	if cm == nil {
		return nil, fmt.Errorf("current match %d: %w", id, ErrNotFound)
	}
	return cm, nil
}

func saveCurrentMatch(ctx context.Context, st store.Stores, cm *models.CurrentMatch) (*models.CurrentMatch, error) {
	saved, err := st.CurrentMatches.Save(ctx, cm)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("user %d: %w", cm.UserID, ErrAlreadyMatched)
		}
		return nil, fmt.Errorf("save current match: %w", err)
	}
	return saved, nil
}

func toCurrentMatchDto(ctx context.Context, st store.Stores, cm *models.CurrentMatch) (dto.CurrentMatchDto, error) {
	slot, err := findSlot(ctx, st, cm.SlotID)
	if err != nil {
		return dto.CurrentMatchDto{}, err
	}

	var game *models.Game
	if cm.GameID != nil {
		game, err = findGame(ctx, st, *cm.GameID)
		if err != nil {
			return dto.CurrentMatchDto{}, err
		}
	}

	return dto.CurrentMatchDtoFrom(cm, slot, game), nil
}

func toCurrentMatchDtos(ctx context.Context, st store.Stores, matches []*models.CurrentMatch) ([]dto.CurrentMatchDto, error) {
	out := make([]dto.CurrentMatchDto, 0, len(matches))
	for _, cm := range matches {
		d, err := toCurrentMatchDto(ctx, st, cm)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
