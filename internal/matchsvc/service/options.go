package service

import (
	"context"

	"github.com/avvvet/arcade-services/internal/comm"
	"github.com/avvvet/arcade-services/internal/matchsvc/models"
)

// Notifier is told about every committed change to current matches.
type Notifier interface {
	CurrentMatchChanged(ctx context.Context, event comm.CurrentMatchEvent) error
}

// HistoryRecorder archives current matches that were removed.
type HistoryRecorder interface {
	RecordRemoved(ctx context.Context, matches []*models.CurrentMatch, reason string) error
}

type Option func(*CurrentMatchService)

func WithNotifier(n Notifier) Option {
	return func(s *CurrentMatchService) {
		s.notifier = n
	}
}

func WithHistory(h HistoryRecorder) Option {
	return func(s *CurrentMatchService) {
		s.history = h
	}
}
