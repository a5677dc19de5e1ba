package schedule

import (
	"regexp"
	"strings"
)

// dateHeaderRe matches the first cell of a schedule table's header row:
// a day number, a month name in Cyrillic, then an uppercase weekday token,
// e.g. "16 января ПОНЕДЕЛЬНИК".
var dateHeaderRe = regexp.MustCompile(`^(\d{1,2}\s+[А-Яа-я]+)\s+([А-ЯЁ]+)`)

// ClassifyHeader extracts the schedule date and weekday from a table's first
// row. The second return value is false when the row does not look like a
// schedule header, which means the whole table should be skipped (it is some
// other table in the document, not an error).
func ClassifyHeader(row []string) (Header, bool) {
	if len(row) == 0 {
		return Header{}, false
	}

	text := strings.TrimSpace(row[0])
	m := dateHeaderRe.FindStringSubmatch(text)
	if m == nil {
		return Header{}, false
	}

	return Header{Date: m[1], Weekday: m[2]}, true
}

// Periods returns the period labels for a table. The period-label row from
// the document is accepted as-is for presence but its content is not parsed:
// source documents are fixed to the canonical six-period layout. If they ever
// deviate, labels will silently mismatch columns; that is a known limitation.
func Periods(row []string) []string {
	out := make([]string, len(PairNames))
	copy(out, PairNames)
	return out
}

// Times returns the time-range labels for a table. Like Periods, the actual
// row content is ignored in favor of the canonical table.
func Times(row []string) []string {
	out := make([]string, len(PairTimes))
	copy(out, PairTimes)
	return out
}
