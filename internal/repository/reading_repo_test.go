package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/finack/acc-smartlink/internal/models"
)

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func readingCols() []string {
	return []string{"ts", "temperature", "heating", "aux_hi", "jets_lo", "jets_hi",
		"filtering", "set_mode", "overheat", "light_on", "jets2_hi", "jets2_lo", "aux_lo", "am"}
}

func TestReadingSave_Success(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	ts := time.Date(2025, 8, 30, 21, 15, 0, 0, time.UTC)
	temp := 98.0

	mock.ExpectExec("INSERT OR REPLACE INTO readings").
		WithArgs(
			ts.UnixMilli(),
			sql.NullFloat64{Float64: temp, Valid: true},
			true, false, true, false, true, false, false, false, false, false, false, true,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Save(ctx(t), models.Reading{
		Timestamp:   ts,
		Temperature: &temp,
		Heating:     true,
		JetsLo:      true,
		Filtering:   true,
		AM:          true,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingSave_NullTemperature(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	ts := time.Date(2025, 8, 30, 21, 15, 0, 0, time.UTC)

	mock.ExpectExec("INSERT OR REPLACE INTO readings").
		WithArgs(
			ts.UnixMilli(),
			sql.NullFloat64{}, // no temperature observed this session
			false, false, false, false, false, false, false, false, false, false, false, false,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Save(ctx(t), models.Reading{Timestamp: ts}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingList_Range(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	from := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	ts1 := from.Add(time.Hour)
	ts2 := from.Add(2 * time.Hour)

	rows := sqlmock.NewRows(readingCols()).
		AddRow(ts1.UnixMilli(), 97.5, true, false, false, false, true, false, false, false, false, false, false, true).
		AddRow(ts2.UnixMilli(), nil, false, false, false, false, true, false, false, false, false, false, false, false)

	mock.ExpectQuery("SELECT (.+) FROM readings").
		WithArgs(from.UnixMilli(), to.UnixMilli()).
		WillReturnRows(rows)

	out, err := repo.List(ctx(t), from, to)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 readings, got %d", len(out))
	}
	if !out[0].Timestamp.Equal(ts1) {
		t.Errorf("first ts: want %v, got %v", ts1, out[0].Timestamp)
	}
	if out[0].Temperature == nil || *out[0].Temperature != 97.5 {
		t.Errorf("first temperature: want 97.5, got %v", out[0].Temperature)
	}
	if !out[0].Heating || !out[0].Filtering || !out[0].AM {
		t.Errorf("first flags wrong: %+v", out[0])
	}
	if out[1].Temperature != nil {
		t.Errorf("second temperature: want nil, got %v", *out[1].Temperature)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingLatest_Empty(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	mock.ExpectQuery("SELECT (.+) FROM readings").
		WillReturnRows(sqlmock.NewRows(readingCols()))

	got, err := repo.Latest(ctx(t))
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil reading for empty table, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestReadingLatest_Found(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewReadingSQLite(db)

	ts := time.Date(2025, 8, 30, 21, 15, 0, 0, time.UTC)
	rows := sqlmock.NewRows(readingCols()).
		AddRow(ts.UnixMilli(), 102.0, true, false, false, true, false, false, false, true, false, false, false, false)

	mock.ExpectQuery("SELECT (.+) FROM readings").
		WillReturnRows(rows)

	got, err := repo.Latest(ctx(t))
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got == nil {
		t.Fatal("want a reading, got nil")
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("ts: want %v, got %v", ts, got.Timestamp)
	}
	if got.Temperature == nil || *got.Temperature != 102.0 {
		t.Errorf("temperature: want 102, got %v", got.Temperature)
	}
	if !got.JetsHi || !got.LightOn {
		t.Errorf("flags wrong: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}
