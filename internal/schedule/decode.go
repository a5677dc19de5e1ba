package schedule

import (
	"sort"
	"strconv"
	"strings"
)

const (
	teacherPrefix = "преп."
	roomPrefix    = "ауд."
)

// unsortableMinute is the sort key assigned to lessons whose time label
// cannot be parsed; they order after every real start time.
const unsortableMinute = 9999

// DecodeGroupRow decodes one group row of a schedule table against the
// period and time labels produced by the classifier. It returns nil when the
// row yields nothing storable: an empty group code, or no cell that decodes
// to a lesson. A nil result means "skip this row", never an error.
//
// Cells align positionally: cell i (counting from 1) belongs to period i.
// Iteration stops once the cell index runs past the shorter of the two label
// lists, so tables with extra trailing columns are truncated silently.
func DecodeGroupRow(row []string, pairs, times []string) *GroupRow {
	if len(row) == 0 {
		return nil
	}

	code := strings.TrimSpace(row[0])
	if code == "" {
		return nil
	}

	var lessons []Lesson
	for i, cell := range row[1:] {
		if i >= len(pairs) || i >= len(times) {
			break
		}
		lesson, ok := decodeCell(cell, pairs[i], times[i])
		if !ok {
			continue
		}
		lessons = append(lessons, lesson)
	}

	if len(lessons) == 0 {
		return nil
	}

	sort.SliceStable(lessons, func(a, b int) bool {
		return startMinute(lessons[a].Time) < startMinute(lessons[b].Time)
	})

	return &GroupRow{Code: code, Lessons: lessons}
}

// decodeCell splits a non-empty cell into subject, teacher and room.
// The first line is the subject; later lines are scanned independently for
// the teacher and room prefixes and anything else is discarded. A cell with
// an empty subject produces no lesson even when teacher/room were present.
func decodeCell(cell, pair, timeSlot string) (Lesson, bool) {
	if strings.TrimSpace(cell) == "" {
		return Lesson{}, false
	}

	lines := strings.Split(strings.ReplaceAll(cell, "\r\n", "\n"), "\n")
	subject := strings.TrimSpace(lines[0])
	if subject == "" {
		return Lesson{}, false
	}

	lesson := Lesson{
		Pair:    pair,
		Time:    timeSlot,
		Subject: subject,
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, teacherPrefix):
			lesson.Teacher = strings.TrimSpace(strings.TrimPrefix(line, teacherPrefix))
		case strings.HasPrefix(line, roomPrefix):
			lesson.Room = strings.TrimSpace(strings.TrimPrefix(line, roomPrefix))
		}
	}

	return lesson, true
}

// startMinute parses the start of a time-range label ("08:30 - 10:05") into
// a minute-of-day sort key. Labels that do not parse get unsortableMinute so
// they sort last instead of failing the row.
func startMinute(timeSlot string) int {
	start, _, found := strings.Cut(timeSlot, "-")
	if !found {
		return unsortableMinute
	}

	h, m, found := strings.Cut(strings.TrimSpace(start), ":")
	if !found {
		return unsortableMinute
	}

	hours, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return unsortableMinute
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return unsortableMinute
	}

	return hours*60 + minutes
}
