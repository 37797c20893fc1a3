package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/finack/acc-smartlink/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ReadingRepo persists session readings keyed by their timestamp.
type ReadingRepo interface {
	Save(ctx context.Context, r models.Reading) error
	List(ctx context.Context, from, to time.Time) ([]models.Reading, error)
	Latest(ctx context.Context) (*models.Reading, error)
}

// EventRepo is the append-only collection diagnostics log.
type EventRepo interface {
	Append(ctx context.Context, e models.SessionEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.SessionEvent, error)
}

type Repository struct {
	ReadingRepo ReadingRepo
	EventRepo   EventRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		ReadingRepo: NewReadingSQLite(db),
		EventRepo:   NewEventSQLite(db),
		Auth:        NewUserRepository(db),
	}
}
