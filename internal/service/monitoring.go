package service

import (
	"context"
	"errors"
	"time"

	"github.com/finack/acc-smartlink/internal/models"
	"github.com/finack/acc-smartlink/internal/repository"
)

type MonitoringService struct {
	readings repository.ReadingRepo
}

func NewMonitoringService(readings repository.ReadingRepo) *MonitoringService {
	return &MonitoringService{readings: readings}
}

var errInvalidReadingRange = errors.New("invalid time range: From must be <= To")

// Latest returns the most recent stored reading, or nil when nothing has
// been collected yet.
func (s *MonitoringService) Latest(ctx context.Context) (*models.Reading, error) {
	return s.readings.Latest(ctx)
}

// List returns readings in the filter window, oldest first. A zero From
// means "since the beginning"; a zero To means "until now".
func (s *MonitoringService) List(ctx context.Context, f ReadingFilter) ([]models.Reading, error) {
	from := toUTC(f.From)
	to := toUTC(f.To)

	if to.IsZero() {
		to = time.Now().UTC()
	}
	if !from.IsZero() && from.After(to) {
		return nil, errInvalidReadingRange
	}
	if from.IsZero() {
		from = time.UnixMilli(0).UTC()
	}

	return s.readings.List(ctx, from, to)
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
