package schedule

import (
	"reflect"
	"testing"
)

func TestDecodeGroupRow(t *testing.T) {
	pairs := Periods(nil)
	times := Times(nil)

	tests := []struct {
		name string
		row  []string
		want *GroupRow
	}{
		{
			name: "full cell with teacher and room",
			row:  []string{"ИС-21", "Математика\nпреп. Иванов\nауд. 205"},
			want: &GroupRow{
				Code: "ИС-21",
				Lessons: []Lesson{
					{Pair: "1 пара", Time: "08:30 - 10:05", Subject: "Математика", Teacher: "Иванов", Room: "205"},
				},
			},
		},
		{
			name: "subject only",
			row:  []string{"ИС-21", "Физика"},
			want: &GroupRow{
				Code: "ИС-21",
				Lessons: []Lesson{
					{Pair: "1 пара", Time: "08:30 - 10:05", Subject: "Физика"},
				},
			},
		},
		{
			name: "unknown extra lines discarded",
			row:  []string{"ИС-21", "Физика\nлабораторная\nауд. 101"},
			want: &GroupRow{
				Code: "ИС-21",
				Lessons: []Lesson{
					{Pair: "1 пара", Time: "08:30 - 10:05", Subject: "Физика", Room: "101"},
				},
			},
		},
		{
			name: "empty cell skips the period without shifting neighbors",
			row:  []string{"ИС-21", "", "Химия", "   ", "История"},
			want: &GroupRow{
				Code: "ИС-21",
				Lessons: []Lesson{
					{Pair: "2 пара", Time: "10:15 - 11:50", Subject: "Химия"},
					{Pair: "4 пара", Time: "13:45 - 15:20", Subject: "История"},
				},
			},
		},
		{
			name: "group code trimmed",
			row:  []string{"  ИС-21  ", "Физика"},
			want: &GroupRow{
				Code: "ИС-21",
				Lessons: []Lesson{
					{Pair: "1 пара", Time: "08:30 - 10:05", Subject: "Физика"},
				},
			},
		},
		{
			name: "extra trailing columns truncated",
			row:  []string{"ИС-21", "А", "Б", "В", "Г", "Д", "Е", "ЛИШНЕЕ", "ЕЩЁ"},
			want: &GroupRow{
				Code: "ИС-21",
				Lessons: []Lesson{
					{Pair: "1 пара", Time: "08:30 - 10:05", Subject: "А"},
					{Pair: "2 пара", Time: "10:15 - 11:50", Subject: "Б"},
					{Pair: "3 пара", Time: "12:00 - 13:35", Subject: "В"},
					{Pair: "4 пара", Time: "13:45 - 15:20", Subject: "Г"},
					{Pair: "5 пара", Time: "15:40 - 17:15", Subject: "Д"},
					{Pair: "6 пара", Time: "17:25 - 19:00", Subject: "Е"},
				},
			},
		},
		{
			name: "empty row",
			row:  []string{},
			want: nil,
		},
		{
			name: "blank group code",
			row:  []string{"   ", "Физика"},
			want: nil,
		},
		{
			name: "no usable lessons",
			row:  []string{"ИС-21", "", "  ", "\n"},
			want: nil,
		},
		{
			name: "teacher and room without subject is not a lesson",
			row:  []string{"ИС-21", "\nпреп. Иванов\nауд. 205"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeGroupRow(tt.row, pairs, times)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeGroupRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeGroupRow_SortsByStartTime(t *testing.T) {
	// Feed lessons out of order by using custom label lists so the second
	// column carries the earlier time.
	pairs := []string{"2 пара", "1 пара"}
	times := []string{"10:15 - 11:50", "08:30 - 10:05"}

	got := DecodeGroupRow([]string{"ИС-21", "Поздняя", "Ранняя"}, pairs, times)
	if got == nil || len(got.Lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %+v", got)
	}
	if got.Lessons[0].Subject != "Ранняя" {
		t.Errorf("expected the 08:30 lesson first, got %q", got.Lessons[0].Subject)
	}
}

func TestDecodeGroupRow_UnparseableTimeSortsLast(t *testing.T) {
	pairs := []string{"1 пара", "2 пара"}
	times := []string{"не время", "08:30 - 10:05"}

	got := DecodeGroupRow([]string{"ИС-21", "Без времени", "Со временем"}, pairs, times)
	if got == nil || len(got.Lessons) != 2 {
		t.Fatalf("expected 2 lessons, got %+v", got)
	}
	if got.Lessons[0].Subject != "Со временем" {
		t.Errorf("lesson with unparseable time must sort last, got order %q, %q",
			got.Lessons[0].Subject, got.Lessons[1].Subject)
	}
}

func TestStartMinute(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"08:30 - 10:05", 510},
		{"17:25 - 19:00", 1045},
		{"9:05 - 10:40", 545},
		{"", unsortableMinute},
		{"no separator", unsortableMinute},
		{"ab:cd - 10:05", unsortableMinute},
		{"0830 - 1005", unsortableMinute},
	}

	for _, tt := range tests {
		if got := startMinute(tt.in); got != tt.want {
			t.Errorf("startMinute(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
