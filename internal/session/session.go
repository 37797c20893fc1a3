// Package session runs one bounded sampling cycle against the SmartLink
// display stream: connect, classify and merge frames until enough
// temperature samples arrived, the time budget ran out, or the transport
// went away. It then emits exactly one Reading.
package session

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finack/acc-smartlink/internal/dsp"
	"github.com/finack/acc-smartlink/internal/logger"
	"github.com/finack/acc-smartlink/internal/models"
)

// Defaults for one collection cycle.
const (
	DefaultSampleTarget = 3
	DefaultTimeout      = 30 * time.Second
)

// State is the session lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateCollecting
	StateFinalizing
	StateClosed
)

// Config bounds one collection cycle. Zero values fall back to the defaults.
type Config struct {
	SampleTarget int
	Timeout      time.Duration
}

func (c Config) withDefaults() Config {
	if c.SampleTarget <= 0 {
		c.SampleTarget = DefaultSampleTarget
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// framePayload is the transport message envelope. Only dsp matters here;
// stsR/stsI are connection-health fields for the surrounding monitor.
type framePayload struct {
	Dsp string `json:"dsp"`
}

// Session is one collection cycle. It is single-use: after Run returns the
// session is inert. All events are consumed on Run's goroutine, so frames
// merge in arrival order with no locking.
type Session struct {
	id  string
	cfg Config
	log *logger.Logger
	now func() time.Time

	state        State
	spa          dsp.SpaState
	samples      []int
	transportErr error
}

// New returns an idle session.
func New(cfg Config, log *logger.Logger) *Session {
	return &Session{
		id:    uuid.NewString(),
		cfg:   cfg.withDefaults(),
		log:   log,
		now:   time.Now,
		state: StateIdle,
	}
}

// ID identifies the session in logs and event records.
func (s *Session) ID() string { return s.id }

// State reports the current lifecycle phase.
func (s *Session) State() State { return s.state }

// Run drives the cycle to completion and always returns one Reading: a
// transport that errors before the first sample still produces a reading
// with a nil temperature. The timeout budget starts here, so a transport
// that never opens cannot stall the caller.
func (s *Session) Run(ctx context.Context, t Transport) models.Reading {
	if s.state != StateIdle {
		panic("session: Run called on a non-idle session")
	}

	timer := time.NewTimer(s.cfg.Timeout)

	s.state = StateConnecting
	if err := t.Connect(ctx); err != nil {
		s.logw("session_connect_failed", "err", err)
		s.transportErr = err
		return s.finalize(t, timer)
	}

	for {
		select {
		case <-ctx.Done():
			return s.finalize(t, timer)
		case <-timer.C:
			return s.finalize(t, timer)
		case ev, ok := <-t.Events():
			if !ok {
				return s.finalize(t, timer)
			}
			switch ev.Kind {
			case EventOpened:
				s.state = StateCollecting
			case EventFrame:
				s.handleFrame(ev.Payload)
				if len(s.samples) >= s.cfg.SampleTarget {
					return s.finalize(t, timer)
				}
			case EventClosed:
				s.logw("session_transport_closed", "code", ev.Code, "reason", ev.Reason)
				return s.finalize(t, timer)
			case EventError:
				s.logw("session_transport_error", "err", ev.Err)
				s.transportErr = ev.Err
				return s.finalize(t, timer)
			}
		}
	}
}

// handleFrame classifies one transport payload and merges it. Malformed
// payloads and unparseable dsp strings are dropped without affecting state.
func (s *Session) handleFrame(payload []byte) {
	var msg framePayload
	if err := json.Unmarshal(payload, &msg); err != nil || msg.Dsp == "" {
		return
	}
	raw, err := dsp.ParseFrame(msg.Dsp)
	if err != nil {
		s.logw("session_bad_frame", "err", err)
		return
	}

	frame := dsp.Classify(raw)
	s.spa = s.spa.Merge(frame)
	if t, ok := frame.(dsp.Temperature); ok {
		s.samples = append(s.samples, t.Value)
	}
}

// finalize assembles the Reading, cancels the timer and releases the
// transport. Entering it twice is a logic bug, not a recoverable state.
func (s *Session) finalize(t Transport, timer *time.Timer) models.Reading {
	if s.state == StateFinalizing || s.state == StateClosed {
		panic("session: finalize re-entered after close")
	}
	s.state = StateFinalizing

	timer.Stop()
	if err := t.Close(); err != nil {
		s.logw("session_transport_close_failed", "err", err)
	}

	r := models.Reading{
		Timestamp:   s.now(),
		Temperature: median(s.samples),
		Heating:     s.spa.Heating,
		AuxHi:       s.spa.AuxHi,
		JetsLo:      s.spa.JetsLo,
		JetsHi:      s.spa.JetsHi,
		Filtering:   s.spa.Filtering,
		SetMode:     s.spa.SetMode,
		Overheat:    s.spa.Overheat,
		LightOn:     s.spa.LightOn,
		Jets2Hi:     s.spa.Jets2Hi,
		Jets2Lo:     s.spa.Jets2Lo,
		AuxLo:       s.spa.AuxLo,
		AM:          s.spa.FinalAM(),
	}

	s.state = StateClosed
	return r
}

// TransportErr reports the transport failure that ended the cycle, if any.
// The Reading is still valid; this only feeds the diagnostics log.
func (s *Session) TransportErr() error { return s.transportErr }

// Samples exposes the collected temperature samples, for diagnostics.
func (s *Session) Samples() []int {
	out := make([]int, len(s.samples))
	copy(out, s.samples)
	return out
}

// median returns the median of samples, or nil for an empty set. Odd counts
// take the middle value, even counts the mean of the two central values.
func median(samples []int) *float64 {
	if len(samples) == 0 {
		return nil
	}
	sorted := make([]int, len(samples))
	copy(sorted, samples)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	var m float64
	if len(sorted)%2 == 1 {
		m = float64(sorted[mid])
	} else {
		m = float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return &m
}

func (s *Session) logw(msg string, kv ...interface{}) {
	if s.log != nil {
		s.log.Infow(msg, append([]interface{}{"session", s.id}, kv...)...)
	}
}
