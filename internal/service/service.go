package service

import (
	"context"
	"time"

	"github.com/finack/acc-smartlink/internal/logger"
	"github.com/finack/acc-smartlink/internal/models"
	"github.com/finack/acc-smartlink/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Monitoring exposes read-only access to stored readings.
type Monitoring interface {
	Latest(ctx context.Context) (*models.Reading, error)
	List(ctx context.Context, f ReadingFilter) ([]models.Reading, error)
}

// EventLog exposes the append-only collection diagnostics with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.SessionEvent, error)
}

// Collector runs the background loop that samples the spa every interval.
// Stop via context cancellation in main() for graceful shutdown.
type Collector interface {
	Run(ctx context.Context, interval time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Monitoring
	EventLog
	Collector
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, log *logger.Logger, opts CollectorOptions) *Service {
	return &Service{
		Monitoring:    NewMonitoringService(repos.ReadingRepo),
		EventLog:      NewEventLogService(repos.EventRepo),
		Collector:     NewCollectorService(repos.ReadingRepo, repos.EventRepo, log, opts),
		Authorization: NewAuthService(repos.Auth),
	}
}
