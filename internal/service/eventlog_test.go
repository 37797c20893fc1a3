package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finack/acc-smartlink/internal/models"
)

// eventRepoStub is a local test stub satisfying repository.EventRepo.
type eventRepoStub struct {
	appended []models.SessionEvent
	appendErr error

	listResp []models.SessionEvent
	listErr  error
	gotFrom  time.Time
	gotTo    time.Time
	gotType  string
}

func (s *eventRepoStub) Append(ctx context.Context, e models.SessionEvent) error {
	s.appended = append(s.appended, e)
	return s.appendErr
}

func (s *eventRepoStub) List(ctx context.Context, from, to time.Time, typ string) ([]models.SessionEvent, error) {
	s.gotFrom, s.gotTo, s.gotType = from, to, typ
	return s.listResp, s.listErr
}

func TestEventLogService_List(t *testing.T) {
	t.Parallel()

	t.Run("rejects inverted range", func(t *testing.T) {
		svc := NewEventLogService(&eventRepoStub{})
		_, err := svc.List(context.Background(), LogFilter{
			From: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		})
		if err == nil {
			t.Fatal("expected error for From > To")
		}
	})

	t.Run("normalizes type filter", func(t *testing.T) {
		stub := &eventRepoStub{}
		svc := NewEventLogService(stub)

		if _, err := svc.List(context.Background(), LogFilter{Type: "  reading "}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stub.gotType != "READING" {
			t.Errorf("type: want READING, got %q", stub.gotType)
		}
	})

	t.Run("propagates repo error", func(t *testing.T) {
		svc := NewEventLogService(&eventRepoStub{listErr: errors.New("db down")})
		if _, err := svc.List(context.Background(), LogFilter{}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("zero bounds pass through", func(t *testing.T) {
		stub := &eventRepoStub{}
		svc := NewEventLogService(stub)

		if _, err := svc.List(context.Background(), LogFilter{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !stub.gotFrom.IsZero() || !stub.gotTo.IsZero() {
			t.Errorf("zero bounds must stay zero: %v / %v", stub.gotFrom, stub.gotTo)
		}
	})
}
