package store

import (
	"context"
	"fmt"
)

// GroupLesson is one lesson annotated with its schedule's date and weekday,
// as returned to the presentation layer.
type GroupLesson struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Pair    string `json:"pair"`
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher,omitempty"`
	Room    string `json:"room,omitempty"`
}

// ListGroups returns every distinct group code across all schedules,
// lexicographically ordered.
func (s *Store) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT code FROM groups ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// ListDates returns all schedule dates in the stored text's lexical order.
// Calendar order is only guaranteed when the source's date labels sort
// lexically; no date parsing is attempted.
func (s *Store) ListDates(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT date FROM schedules ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

const lessonsForGroupSQL = `
SELECT s.date, s.weekday, l.pair_number, l.time_slot, l.subject, l.teacher, l.room
FROM lessons l
JOIN groups g ON g.id = l.group_id
JOIN schedules s ON s.id = g.schedule_id
WHERE g.code = $1
ORDER BY s.date, l.time_slot`

const lessonsForGroupOnDateSQL = `
SELECT s.date, s.weekday, l.pair_number, l.time_slot, l.subject, l.teacher, l.room
FROM lessons l
JOIN groups g ON g.id = l.group_id
JOIN schedules s ON s.id = g.schedule_id
WHERE g.code = $1 AND s.date = $2
ORDER BY l.time_slot`

// LessonsForGroup returns every stored lesson for a group code across all
// schedules, ordered by date then time slot.
func (s *Store) LessonsForGroup(ctx context.Context, code string) ([]GroupLesson, error) {
	rows, err := s.pool.Query(ctx, lessonsForGroupSQL, code)
	if err != nil {
		return nil, fmt.Errorf("lessons for group %q: %w", code, err)
	}
	defer rows.Close()

	return scanLessons(rows)
}

// LessonsForGroupOnDate restricts LessonsForGroup to a single schedule date.
func (s *Store) LessonsForGroupOnDate(ctx context.Context, code, date string) ([]GroupLesson, error) {
	rows, err := s.pool.Query(ctx, lessonsForGroupOnDateSQL, code, date)
	if err != nil {
		return nil, fmt.Errorf("lessons for group %q on %q: %w", code, date, err)
	}
	defer rows.Close()

	return scanLessons(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanStrings(rows rowScanner) ([]string, error) {
	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanLessons(rows rowScanner) ([]GroupLesson, error) {
	out := []GroupLesson{}
	for rows.Next() {
		var l GroupLesson
		if err := rows.Scan(&l.Date, &l.Weekday, &l.Pair, &l.Time, &l.Subject, &l.Teacher, &l.Room); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
