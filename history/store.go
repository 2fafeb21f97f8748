// Package history persists per-day world statistics in SQLite so runs can
// be compared after the fact.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/pthm-cable/planisuss/world"
)

//go:embed schema.sql
var schema string

// ErrDuplicateDay is returned when a day is recorded twice for one run.
var ErrDuplicateDay = errors.New("day already recorded")

// Store persists run history in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Run describes one recorded simulation run.
type Run struct {
	ID        int64
	Seed      uint64
	Rows      int
	Cols      int
	StartedAt time.Time
}

// Day is one stored row of per-day statistics.
type Day struct {
	Day          int
	Erbast       int
	Carviz       int
	ErbastEnergy int
	CarvizEnergy int
	ErbastBirths int
	CarvizBirths int
	ErbastDeaths int
	CarvizDeaths int
	Kills        int
	Grazed       int
	VegetobTotal int
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// BeginRun registers a new run and returns its identifier.
func (s *Store) BeginRun(ctx context.Context, seed uint64, rows, cols int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("history is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (seed, grid_rows, grid_cols, started_at) VALUES (?, ?, ?, ?)`,
		int64(seed), rows, cols, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("begin run: %w", err)
	}
	return id, nil
}

// Record stores the stats of one completed day.
func (s *Store) Record(ctx context.Context, runID int64, st world.Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("history is not configured")
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO days (
		   run_id, day,
		   erbast, carviz,
		   erbast_energy, carviz_energy,
		   erbast_births, carviz_births,
		   erbast_deaths, carviz_deaths,
		   kills, grazed, vegetob_total
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, st.Day,
		st.Erbast.Count, st.Carviz.Count,
		st.Erbast.Energy, st.Carviz.Energy,
		st.Erbast.Births, st.Carviz.Births,
		st.Erbast.Deaths, st.Carviz.Deaths,
		st.Events.Kills, st.Events.Grazed, st.Vegetob.Total,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("run %d day %d: %w", runID, st.Day, ErrDuplicateDay)
		}
		return fmt.Errorf("record day: %w", err)
	}
	return nil
}

// Runs lists every recorded run, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, seed, grid_rows, grid_cols, started_at FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var seed, started int64
		if err := rows.Scan(&r.ID, &seed, &r.Rows, &r.Cols, &started); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Seed = uint64(seed)
		r.StartedAt = time.UnixMilli(started).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Days returns the recorded days of a run in day order.
func (s *Store) Days(ctx context.Context, runID int64) ([]Day, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT day, erbast, carviz, erbast_energy, carviz_energy,
		        erbast_births, carviz_births, erbast_deaths, carviz_deaths,
		        kills, grazed, vegetob_total
		   FROM days WHERE run_id = ? ORDER BY day`, runID)
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	defer rows.Close()

	var days []Day
	for rows.Next() {
		var d Day
		if err := rows.Scan(
			&d.Day, &d.Erbast, &d.Carviz, &d.ErbastEnergy, &d.CarvizEnergy,
			&d.ErbastBirths, &d.CarvizBirths, &d.ErbastDeaths, &d.CarvizDeaths,
			&d.Kills, &d.Grazed, &d.VegetobTotal,
		); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}
	return days, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
