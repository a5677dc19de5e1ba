// Package files manages the retained schedule documents on disk. Ingested
// DOCX files are kept under one directory, named by their schedule date, so
// administrators can re-download or re-ingest them. Retention is one week:
// files from before the start of the current week are eligible for cleanup.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Manager owns the schedule file directory.
type Manager struct {
	dir string
}

// NewManager creates a manager for dir, creating the directory if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create schedule files dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the managed directory path.
func (m *Manager) Dir() string {
	return m.dir
}

// Save stores a schedule document under its date-derived name, replacing any
// previous file for the same date. It returns the stored file's name.
func (m *Manager) Save(data []byte, dateLabel string) (string, error) {
	name := FileName(dateLabel)
	path := filepath.Join(m.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save schedule file: %w", err)
	}
	return name, nil
}

// PathForDate returns the stored file path for a schedule date, or false if
// no file is retained for it.
func (m *Manager) PathForDate(dateLabel string) (string, bool) {
	path := filepath.Join(m.dir, FileName(dateLabel))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// FileName derives the retained file name for a date label:
// spaces become underscores and the whole name is lowercased.
func FileName(dateLabel string) string {
	safe := strings.ToLower(strings.ReplaceAll(dateLabel, " ", "_"))
	return "schedule_" + safe + ".docx"
}

// Info describes one retained schedule file.
type Info struct {
	Name    string    `json:"name"`
	ModTime time.Time `json:"modTime"`
}

// List returns the retained schedule files, newest first.
func (m *Manager) List() ([]Info, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, "schedule_*.docx"))
	if err != nil {
		return nil, fmt.Errorf("list schedule files: %w", err)
	}

	infos := make([]Info, 0, len(matches))
	for _, path := range matches {
		st, err := os.Stat(path)
		if err != nil {
			continue
		}
		infos = append(infos, Info{Name: filepath.Base(path), ModTime: st.ModTime()})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ModTime.After(infos[j].ModTime) })
	return infos, nil
}

// Cleanup deletes retained files last modified before the start of the
// current week and returns how many were removed. Files from the current
// week are always kept.
func (m *Manager) Cleanup(now time.Time) (int, error) {
	cutoff := WeekStart(now)

	infos, err := m.List()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, info := range infos {
		if !info.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(m.dir, info.Name)); err != nil {
			return deleted, fmt.Errorf("remove %s: %w", info.Name, err)
		}
		deleted++
	}
	return deleted, nil
}

// Stats summarizes the retention directory.
type Stats struct {
	Total       int    `json:"total"`
	CurrentWeek int    `json:"currentWeek"`
	Old         int    `json:"old"`
	Recent      []Info `json:"recent"`
}

// Stats reports file counts split at the current week boundary, plus the
// five most recent files.
func (m *Manager) Stats(now time.Time) (Stats, error) {
	infos, err := m.List()
	if err != nil {
		return Stats{}, err
	}

	cutoff := WeekStart(now)
	s := Stats{Total: len(infos)}
	for _, info := range infos {
		if info.ModTime.Before(cutoff) {
			s.Old++
		} else {
			s.CurrentWeek++
		}
	}

	if len(infos) > 5 {
		infos = infos[:5]
	}
	s.Recent = infos
	return s, nil
}

// WeekStart returns midnight on the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started 6 days earlier
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
