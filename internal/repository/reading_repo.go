package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/finack/acc-smartlink/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite {
	return &ReadingSQLite{db: db}
}

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	// OR REPLACE keeps Save idempotent if a clock reset replays a key;
	// non-overlapping sessions cannot otherwise collide.
	insertReadingSQL = `
		INSERT OR REPLACE INTO readings (ts, temperature, heating, aux_hi, jets_lo, jets_hi, filtering,
			set_mode, overheat, light_on, jets2_hi, jets2_lo, aux_lo, am)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRangeSQL = `
		SELECT ts, temperature, heating, aux_hi, jets_lo, jets_hi, filtering,
		set_mode, overheat, light_on, jets2_hi, jets2_lo, aux_lo, am FROM readings
		WHERE ts >= ? AND ts <= ? ORDER BY ts ASC
	`

	selectLatestSQL = `
		SELECT ts, temperature, heating, aux_hi, jets_lo, jets_hi, filtering,
		set_mode, overheat, light_on, jets2_hi, jets2_lo, aux_lo, am FROM readings
		ORDER BY ts DESC LIMIT 1
	`
)

// Save inserts one reading keyed by its timestamp in ms since epoch.
func (r *ReadingSQLite) Save(ctx context.Context, reading models.Reading) error {
	ts := reading.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	var temp sql.NullFloat64
	if reading.Temperature != nil {
		temp = sql.NullFloat64{Float64: *reading.Temperature, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		ts.UnixMilli(),
		temp,
		reading.Heating,
		reading.AuxHi,
		reading.JetsLo,
		reading.JetsHi,
		reading.Filtering,
		reading.SetMode,
		reading.Overheat,
		reading.LightOn,
		reading.Jets2Hi,
		reading.Jets2Lo,
		reading.AuxLo,
		reading.AM,
	)
	return err
}

// List returns readings with timestamps inside [from, to], ordered ASC.
func (r *ReadingSQLite) List(ctx context.Context, from, to time.Time) ([]models.Reading, error) {
	rows, err := r.db.QueryContext(ctx, selectRangeSQL, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Reading, 0, 64)
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest fetches the most recent reading, or nil if none exist yet.
func (r *ReadingSQLite) Latest(ctx context.Context) (*models.Reading, error) {
	row := r.db.QueryRowContext(ctx, selectLatestSQL)
	reading, err := scanReading(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &reading, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReading(row rowScanner) (models.Reading, error) {
	var (
		reading models.Reading
		ts      int64
		temp    sql.NullFloat64
	)
	if err := row.Scan(
		&ts,
		&temp,
		&reading.Heating,
		&reading.AuxHi,
		&reading.JetsLo,
		&reading.JetsHi,
		&reading.Filtering,
		&reading.SetMode,
		&reading.Overheat,
		&reading.LightOn,
		&reading.Jets2Hi,
		&reading.Jets2Lo,
		&reading.AuxLo,
		&reading.AM,
	); err != nil {
		return models.Reading{}, err
	}
	reading.Timestamp = time.UnixMilli(ts).UTC()
	if temp.Valid {
		t := temp.Float64
		reading.Temperature = &t
	}
	return reading, nil
}
