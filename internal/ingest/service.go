// Package ingest orchestrates document ingestion: it pulls the cell grids
// out of an uploaded or fetched DOCX, feeds each table to the schedule
// store, retains the source file, and reports the per-table outcome. Tables
// are independent: one table failing to persist does not stop the others.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/weifxx/timetable/internal/extract"
	"github.com/weifxx/timetable/internal/files"
	"github.com/weifxx/timetable/internal/schedule"
)

// Store is the persistence operation the service needs.
type Store interface {
	Ingest(ctx context.Context, tbl schedule.Table) (bool, error)
}

// Notifier receives human-readable ingestion outcome messages. The chat
// transport that ultimately delivers them to administrators lives outside
// this service.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// LogNotifier is the default Notifier; it writes messages to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, message string) {
	slog.Info("notification", "message", message)
}

// Service ties extraction, persistence and file retention together.
type Service struct {
	store    Store
	files    *files.Manager
	notifier Notifier
}

// NewService creates an ingestion service. A nil notifier defaults to
// LogNotifier.
func NewService(store Store, fm *files.Manager, notifier Notifier) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Service{store: store, files: fm, notifier: notifier}
}

// TableResult is the outcome for one table of a document.
type TableResult struct {
	Index     int    `json:"index"`
	Date      string `json:"date,omitempty"`
	Committed bool   `json:"committed"`
	Rejected  bool   `json:"rejected"`
	Error     string `json:"error,omitempty"`
}

// Report is the outcome of ingesting one document.
type Report struct {
	RunID     string        `json:"runId"`
	FileName  string        `json:"fileName"`
	Tables    int           `json:"tables"`
	Committed int           `json:"committed"`
	Rejected  int           `json:"rejected"`
	Failed    int           `json:"failed"`
	SavedAs   string        `json:"savedAs,omitempty"`
	Results   []TableResult `json:"results"`
	Duration  time.Duration `json:"-"`
}

// IngestUpload ingests a DOCX received as an in-memory upload. The payload
// is written to a temporary file first because the OOXML reader works on
// files.
func (s *Service) IngestUpload(ctx context.Context, fileName string, data []byte) (*Report, error) {
	tmp, err := os.CreateTemp("", "timetable-upload-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	return s.IngestFile(ctx, tmpPath, fileName)
}

// IngestFile ingests the DOCX at path. originalName is only used for
// reporting; the retained copy is named after the first schedule date found
// in the document.
func (s *Service) IngestFile(ctx context.Context, path, originalName string) (*Report, error) {
	tables, err := extract.TablesFromDocx(path)
	if err != nil {
		return nil, fmt.Errorf("extract tables: %w", err)
	}

	report := s.IngestTables(ctx, tables)
	report.FileName = originalName
	if report.FileName == "" {
		report.FileName = filepath.Base(path)
	}

	// Retain the source document under its first committed date so it can
	// be re-served or re-ingested later.
	if date := firstCommittedDate(report); date != "" && s.files != nil {
		data, err := os.ReadFile(path)
		if err == nil {
			if saved, err := s.files.Save(data, date); err != nil {
				slog.Warn("failed to retain schedule file", "error", err)
			} else {
				report.SavedAs = saved
			}
		}
	}

	s.notifier.Notify(ctx, summarize(report))
	return report, nil
}

// IngestTables runs each grid through the store and collects per-table
// outcomes. Storage failures are contained per table.
func (s *Service) IngestTables(ctx context.Context, tables []schedule.Table) *Report {
	start := time.Now()
	report := &Report{
		RunID:  uuid.New().String(),
		Tables: len(tables),
	}

	log := slog.With("run_id", report.RunID)

	for i, tbl := range tables {
		result := TableResult{Index: i}
		if header, ok := headerOf(tbl); ok {
			result.Date = header.Date
		}

		committed, err := s.store.Ingest(ctx, tbl)
		switch {
		case err != nil:
			result.Error = err.Error()
			report.Failed++
			log.Error("table ingest failed", "table", i, "error", err)
		case committed:
			result.Committed = true
			report.Committed++
		default:
			result.Rejected = true
			report.Rejected++
			log.Debug("table rejected", "table", i)
		}

		report.Results = append(report.Results, result)
	}

	report.Duration = time.Since(start)
	log.Info("document processed",
		"tables", report.Tables,
		"committed", report.Committed,
		"rejected", report.Rejected,
		"failed", report.Failed,
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report
}

func headerOf(tbl schedule.Table) (schedule.Header, bool) {
	if len(tbl) == 0 {
		return schedule.Header{}, false
	}
	return schedule.ClassifyHeader(tbl[0])
}

func firstCommittedDate(r *Report) string {
	for _, res := range r.Results {
		if res.Committed && res.Date != "" {
			return res.Date
		}
	}
	return ""
}

func summarize(r *Report) string {
	if r.Tables == 0 {
		return fmt.Sprintf("%s: документ не содержит таблиц", r.FileName)
	}
	if r.Failed > 0 {
		return fmt.Sprintf("%s: сохранено %d из %d таблиц, ошибок: %d",
			r.FileName, r.Committed, r.Tables, r.Failed)
	}
	return fmt.Sprintf("%s: сохранено %d из %d таблиц", r.FileName, r.Committed, r.Tables)
}
