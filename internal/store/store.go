// Package store is the persistence layer for decoded schedules. It owns the
// relational schema (schedules, groups, lessons) and the ingest path that
// keeps re-ingestion idempotent: one schedule per date, one group per
// (schedule, code), and a group's lessons fully replaced on every ingest.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weifxx/timetable/internal/schedule"
)

// DBTX is the subset of pgx operations the store needs.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Store provides ingest and read access to the schedule database.
// All mutation goes through Ingest; the query methods never write.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store on top of an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// schemaDDL creates the persisted schema. Column names and constraints are
// load-bearing: existing deployments read this exact shape.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS schedules (
    id SERIAL PRIMARY KEY,
    date TEXT UNIQUE NOT NULL,
    weekday TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS groups (
    id SERIAL PRIMARY KEY,
    code TEXT NOT NULL,
    schedule_id INTEGER REFERENCES schedules(id)
);
CREATE TABLE IF NOT EXISTS lessons (
    id SERIAL PRIMARY KEY,
    group_id INTEGER REFERENCES groups(id),
    pair_number TEXT,
    time_slot TEXT,
    subject TEXT,
    teacher TEXT,
    room TEXT
);
`

// InitSchema creates the schema if it does not exist. Existing data is
// never touched.
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Ingest persists one raw table. The boolean reports whether the table was a
// valid schedule table and was committed. A false result with a nil error
// means the table was rejected (not a schedule: too few rows or an
// unrecognizable header) and nothing was written. A non-nil error means a
// storage failure; the whole table's transaction is rolled back, so a failed
// table never leaves partial state behind.
func (s *Store) Ingest(ctx context.Context, tbl schedule.Table) (bool, error) {
	if len(tbl) < schedule.HeaderRows {
		slog.Debug("table rejected: too few rows", "rows", len(tbl))
		return false, nil
	}

	header, ok := schedule.ClassifyHeader(tbl[0])
	if !ok {
		slog.Debug("table rejected: header row is not a schedule date", "cell", firstCell(tbl[0]))
		return false, nil
	}

	pairs := schedule.Periods(tbl[1])
	times := schedule.Times(tbl[2])

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	scheduleID, err := upsertSchedule(ctx, tx, header)
	if err != nil {
		return false, fmt.Errorf("upsert schedule %q: %w", header.Date, err)
	}

	groups := 0
	for _, row := range tbl[schedule.HeaderRows:] {
		group := schedule.DecodeGroupRow(row, pairs, times)
		if group == nil {
			continue
		}
		if err := replaceGroupLessons(ctx, tx, scheduleID, group); err != nil {
			return false, fmt.Errorf("store group %q: %w", group.Code, err)
		}
		groups++
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	slog.Info("schedule ingested",
		"date", header.Date,
		"weekday", header.Weekday,
		"groups", groups,
	)
	return true, nil
}

// upsertSchedule creates the schedule row for a date, or reuses the existing
// one while refreshing its weekday label.
func upsertSchedule(ctx context.Context, db DBTX, h schedule.Header) (int32, error) {
	var id int32
	err := db.QueryRow(ctx,
		`INSERT INTO schedules (date, weekday) VALUES ($1, $2)
		 ON CONFLICT (date) DO UPDATE SET weekday = EXCLUDED.weekday
		 RETURNING id`,
		h.Date, h.Weekday,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// replaceGroupLessons upserts the group row and replaces its lesson set.
// Delete-then-insert is the idempotence mechanism: re-ingesting an unchanged
// table reproduces the identical lessons, and a corrected table displaces
// stale ones without any per-lesson diffing.
func replaceGroupLessons(ctx context.Context, db DBTX, scheduleID int32, group *schedule.GroupRow) error {
	var groupID int32
	err := db.QueryRow(ctx,
		`SELECT id FROM groups WHERE code = $1 AND schedule_id = $2`,
		group.Code, scheduleID,
	).Scan(&groupID)

	switch {
	case err == nil:
		if _, err := db.Exec(ctx, `DELETE FROM lessons WHERE group_id = $1`, groupID); err != nil {
			return fmt.Errorf("clear lessons: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		err = db.QueryRow(ctx,
			`INSERT INTO groups (code, schedule_id) VALUES ($1, $2) RETURNING id`,
			group.Code, scheduleID,
		).Scan(&groupID)
		if err != nil {
			return fmt.Errorf("insert group: %w", err)
		}
	default:
		return fmt.Errorf("find group: %w", err)
	}

	for _, l := range group.Lessons {
		_, err := db.Exec(ctx,
			`INSERT INTO lessons (group_id, pair_number, time_slot, subject, teacher, room)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			groupID, l.Pair, l.Time, l.Subject, l.Teacher, l.Room,
		)
		if err != nil {
			return fmt.Errorf("insert lesson: %w", err)
		}
	}

	return nil
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}
