package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/weifxx/timetable/internal/logging"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleListGroups returns every group code known to the store.
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroups(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("list groups", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list groups")
		return
	}
	writeJSON(w, map[string]any{"groups": groups})
}

// handleListDates returns every schedule date known to the store.
func (s *Server) handleListDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.store.ListDates(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("list dates", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list dates")
		return
	}
	writeJSON(w, map[string]any{"dates": dates})
}

// handleGroupLessons returns the lessons of one group, optionally narrowed
// to a single schedule date via the date query parameter.
func (s *Server) handleGroupLessons(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "group code is required")
		return
	}

	var (
		lessons any
		err     error
		found   int
	)
	if date := r.URL.Query().Get("date"); date != "" {
		ls, e := s.store.LessonsForGroupOnDate(r.Context(), code, date)
		lessons, err, found = ls, e, len(ls)
	} else {
		ls, e := s.store.LessonsForGroup(r.Context(), code)
		lessons, err, found = ls, e, len(ls)
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("group lessons", "group", code, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load lessons")
		return
	}
	if found == 0 {
		writeError(w, http.StatusNotFound, "no schedule found for group")
		return
	}

	writeJSON(w, map[string]any{"group": code, "lessons": lessons})
}

// handleIngest accepts a multipart DOCX upload and runs it through the
// ingestion service. The per-table outcome is returned to the caller.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Ingest.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".docx" {
		writeError(w, http.StatusUnsupportedMediaType, "only .docx documents are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	report, err := s.ingest.IngestUpload(r.Context(), header.Filename, data)
	if err != nil {
		logging.FromContext(r.Context()).Error("ingest upload", "file", header.Filename, "error", err)
		writeError(w, http.StatusUnprocessableEntity, "failed to process document")
		return
	}

	writeJSON(w, report)
}

// handleFetch pulls a schedule document from the college site. Without a
// day query parameter it fetches tomorrow's document.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		writeError(w, http.StatusServiceUnavailable, "schedule page fetching is not configured")
		return
	}

	var (
		report any
		err    error
	)
	if day := r.URL.Query().Get("day"); day != "" {
		report, err = s.fetcher.FetchDay(r.Context(), day)
	} else {
		report, err = s.fetcher.FetchTomorrow(r.Context())
	}
	if err != nil {
		logging.FromContext(r.Context()).Warn("fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch schedule document")
		return
	}

	writeJSON(w, report)
}

// handleListFiles returns the retained schedule documents, newest first.
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	infos, err := s.files.List()
	if err != nil {
		logging.FromContext(r.Context()).Error("list files", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list schedule files")
		return
	}
	writeJSON(w, map[string]any{"files": infos})
}

// handleFileStats summarizes the retention directory.
func (s *Server) handleFileStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.files.Stats(time.Now())
	if err != nil {
		logging.FromContext(r.Context()).Error("file stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to collect file stats")
		return
	}
	writeJSON(w, stats)
}

// handleCleanup deletes retained files from before the current week.
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.files.Cleanup(time.Now())
	if err != nil {
		logging.FromContext(r.Context()).Error("cleanup", "error", err)
		writeError(w, http.StatusInternalServerError, "cleanup failed")
		return
	}

	logging.FromContext(r.Context()).Info("cleanup completed", "deleted", deleted)
	writeJSON(w, map[string]int{"deleted": deleted})
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"admins": s.admins.List()})
}

func (s *Server) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := adminIDParam(w, r)
	if !ok {
		return
	}

	added := s.admins.Add(id)
	if added {
		logging.FromContext(r.Context()).Info("admin added", "id", id)
	}
	writeJSON(w, map[string]any{"id": id, "added": added})
}

func (s *Server) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := adminIDParam(w, r)
	if !ok {
		return
	}

	removed := s.admins.Remove(id)
	if removed {
		logging.FromContext(r.Context()).Info("admin removed", "id", id)
	}
	writeJSON(w, map[string]any{"id": id, "removed": removed})
}

func adminIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "admin ID must be a number")
		return 0, false
	}
	return id, true
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
