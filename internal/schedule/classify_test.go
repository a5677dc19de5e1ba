package schedule

import "testing"

func TestClassifyHeader(t *testing.T) {
	tests := []struct {
		name        string
		row         []string
		wantDate    string
		wantWeekday string
		wantOK      bool
	}{
		{
			name:        "standard header",
			row:         []string{"16 января ПОНЕДЕЛЬНИК"},
			wantDate:    "16 января",
			wantWeekday: "ПОНЕДЕЛЬНИК",
			wantOK:      true,
		},
		{
			name:        "single digit day",
			row:         []string{"3 сентября СРЕДА"},
			wantDate:    "3 сентября",
			wantWeekday: "СРЕДА",
			wantOK:      true,
		},
		{
			name:        "leading and trailing whitespace",
			row:         []string{"  16 января ПОНЕДЕЛЬНИК  "},
			wantDate:    "16 января",
			wantWeekday: "ПОНЕДЕЛЬНИК",
			wantOK:      true,
		},
		{
			name:        "weekday with yo",
			row:         []string{"2 февраля СРЕДЁ"},
			wantDate:    "2 февраля",
			wantWeekday: "СРЕДЁ",
			wantOK:      true,
		},
		{
			name:        "extra cells ignored",
			row:         []string{"16 января ПОНЕДЕЛЬНИК", "", "junk"},
			wantDate:    "16 января",
			wantWeekday: "ПОНЕДЕЛЬНИК",
			wantOK:      true,
		},
		{
			name:   "empty row",
			row:    []string{},
			wantOK: false,
		},
		{
			name:   "empty first cell",
			row:    []string{""},
			wantOK: false,
		},
		{
			name:   "no weekday token",
			row:    []string{"16 января"},
			wantOK: false,
		},
		{
			name:   "lowercase weekday rejected",
			row:    []string{"16 января понедельник"},
			wantOK: false,
		},
		{
			name:   "latin text rejected",
			row:    []string{"16 January MONDAY"},
			wantOK: false,
		},
		{
			name:   "arbitrary table caption rejected",
			row:    []string{"Список преподавателей"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := ClassifyHeader(tt.row)
			if ok != tt.wantOK {
				t.Fatalf("ClassifyHeader(%v) ok = %v, want %v", tt.row, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if h.Date != tt.wantDate {
				t.Errorf("Date = %q, want %q", h.Date, tt.wantDate)
			}
			if h.Weekday != tt.wantWeekday {
				t.Errorf("Weekday = %q, want %q", h.Weekday, tt.wantWeekday)
			}
		})
	}
}

func TestPeriodsAndTimesAreCanonical(t *testing.T) {
	// Row content is deliberately ignored; the canonical tables win.
	pairs := Periods([]string{"whatever", "is", "here"})
	times := Times(nil)

	if len(pairs) != 6 || len(times) != 6 {
		t.Fatalf("expected 6 periods and 6 times, got %d and %d", len(pairs), len(times))
	}
	if pairs[0] != "1 пара" || pairs[5] != "6 пара" {
		t.Errorf("unexpected period labels: %v", pairs)
	}
	if times[0] != "08:30 - 10:05" || times[5] != "17:25 - 19:00" {
		t.Errorf("unexpected time labels: %v", times)
	}
}

func TestPeriodsReturnsCopy(t *testing.T) {
	pairs := Periods(nil)
	pairs[0] = "mutated"

	if PairNames[0] != "1 пара" {
		t.Error("Periods() must not expose the canonical backing array")
	}
}
