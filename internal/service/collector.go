package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/finack/acc-smartlink/internal/logger"
	"github.com/finack/acc-smartlink/internal/models"
	"github.com/finack/acc-smartlink/internal/repository"
	"github.com/finack/acc-smartlink/internal/session"
	"github.com/finack/acc-smartlink/internal/transport"
)

// DefaultInterval is how often a collection cycle starts.
const DefaultInterval = 5 * time.Minute

// Event types appended to the session log.
const (
	EventTypeReading        = "READING"
	EventTypeTransportError = "TRANSPORT_ERROR"
	EventTypeStoreError     = "STORE_ERROR"
)

// CollectorOptions configures the background sampling loop.
type CollectorOptions struct {
	// SpaURL is the SmartLink module WebSocket endpoint.
	SpaURL string
	// Session overrides the per-cycle sample target / timeout when non-zero.
	Session session.Config
	// NewTransport overrides the transport constructor; nil means a fresh
	// WebSocket to SpaURL per cycle.
	NewTransport func() session.Transport
}

// CollectorService owns the periodic sampling loop. One session runs at a
// time: the in-flight guard lives here, not in the session, so a cycle that
// overruns the interval makes the next tick skip rather than overlap.
type CollectorService struct {
	readings repository.ReadingRepo
	events   repository.EventRepo
	log      *logger.Logger

	sessionCfg   session.Config
	newTransport func() session.Transport
	inFlight     atomic.Bool
}

func NewCollectorService(readings repository.ReadingRepo, events repository.EventRepo, log *logger.Logger, opts CollectorOptions) *CollectorService {
	newTransport := opts.NewTransport
	if newTransport == nil {
		url := opts.SpaURL
		newTransport = func() session.Transport {
			return transport.NewWebSocket(url)
		}
	}
	return &CollectorService{
		readings:     readings,
		events:       events,
		log:          log,
		sessionCfg:   opts.Session,
		newTransport: newTransport,
	}
}

// Run samples once immediately, then every tick until ctx is canceled.
func (s *CollectorService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultInterval
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	s.CollectOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.CollectOnce(ctx)
		}
	}
}

// CollectOnce runs a single collection cycle and persists its Reading. It is
// a no-op when a prior cycle has not reached Closed yet.
func (s *CollectorService) CollectOnce(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		if s.log != nil {
			s.log.Warnw("collector_cycle_skipped", "reason", "session in flight")
		}
		return
	}
	defer s.inFlight.Store(false)

	sess := session.New(s.sessionCfg, s.log)
	reading := sess.Run(ctx, s.newTransport())

	// Shutdown raced the session; don't write with a dead context.
	if ctx.Err() != nil {
		return
	}

	if terr := sess.TransportErr(); terr != nil {
		_ = s.events.Append(ctx, models.SessionEvent{
			Type:        EventTypeTransportError,
			Description: "transport failed during collection",
			Metadata:    map[string]any{"session": sess.ID(), "err": terr.Error()},
		})
	}

	if err := s.readings.Save(ctx, reading); err != nil {
		if s.log != nil {
			s.log.Errorw("collector_save_failed", "session", sess.ID(), "err", err)
		}
		_ = s.events.Append(ctx, models.SessionEvent{
			Type:        EventTypeStoreError,
			Description: "failed to store reading",
			Metadata:    map[string]any{"session": sess.ID(), "err": err.Error()},
		})
		return
	}

	meta := map[string]any{
		"session": sess.ID(),
		"samples": len(sess.Samples()),
	}
	if reading.Temperature != nil {
		meta["temperature"] = *reading.Temperature
	}
	_ = s.events.Append(ctx, models.SessionEvent{
		Type:        EventTypeReading,
		Description: "reading stored",
		Metadata:    meta,
	})

	if s.log != nil {
		s.log.Infow("collector_reading_stored",
			"session", sess.ID(),
			"ts", reading.Timestamp.UnixMilli(),
			"samples", len(sess.Samples()),
		)
	}
}
