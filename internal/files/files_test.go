package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"16 января", "schedule_16_января.docx"},
		{"3 Сентября", "schedule_3_сентября.docx"},
		{"одинслитно", "schedule_одинслитно.docx"},
	}
	for _, tt := range tests {
		if got := FileName(tt.in); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "wednesday",
			in:   time.Date(2025, 1, 15, 13, 45, 0, 0, time.UTC), // Wed
			want: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),   // Mon
		},
		{
			name: "monday stays",
			in:   time.Date(2025, 1, 13, 0, 0, 1, 0, time.UTC),
			want: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "sunday belongs to preceding monday",
			in:   time.Date(2025, 1, 19, 23, 0, 0, 0, time.UTC),
			want: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSaveAndPathForDate(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	name, err := m.Save([]byte("docx bytes"), "16 января")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name != "schedule_16_января.docx" {
		t.Errorf("Save name = %q", name)
	}

	path, ok := m.PathForDate("16 января")
	if !ok {
		t.Fatal("PathForDate: file not found after Save")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "docx bytes" {
		t.Errorf("stored content = %q, err = %v", data, err)
	}

	if _, ok := m.PathForDate("17 января"); ok {
		t.Error("PathForDate for unknown date = true, want false")
	}
}

func TestCleanupAndStats(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, err := m.Save([]byte("new"), "16 января"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Save([]byte("old"), "2 января"); err != nil {
		t.Fatal(err)
	}

	// Age the second file past the week boundary.
	now := time.Now()
	old := WeekStart(now).AddDate(0, 0, -3)
	oldPath := filepath.Join(dir, FileName("2 января"))
	if err := os.Chtimes(oldPath, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	stats, err := m.Stats(now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 2 || stats.CurrentWeek != 1 || stats.Old != 1 {
		t.Errorf("Stats = %+v, want total=2 currentWeek=1 old=1", stats)
	}

	deleted, err := m.Cleanup(now)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Cleanup deleted %d files, want 1", deleted)
	}

	if _, ok := m.PathForDate("2 января"); ok {
		t.Error("old file survived cleanup")
	}
	if _, ok := m.PathForDate("16 января"); !ok {
		t.Error("current-week file was deleted")
	}
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, err := m.Save([]byte("a"), "14 января"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Save([]byte("b"), "15 января"); err != nil {
		t.Fatal(err)
	}

	older := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(dir, FileName("14 января")), older, older); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	infos, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("List returned %d files, want 2", len(infos))
	}
	if infos[0].Name != FileName("15 января") {
		t.Errorf("List[0] = %q, want newest first", infos[0].Name)
	}
}
