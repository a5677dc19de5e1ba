// Package schedule contains the pure decoding core for published timetables.
// It turns raw table grids (rows of text cells, as extracted from a document)
// into typed schedule records. This package has no storage or transport
// dependencies and can be exercised by any caller.
package schedule

// Table is one raw table from a source document: an ordered list of rows,
// each row an ordered list of text cells. Cells may be empty or absent
// (short rows are legal).
type Table [][]string

// HeaderRows is the number of leading rows every schedule table must have:
// the date/weekday row, the period-label row and the time-label row.
const HeaderRows = 3

// PairNames is the canonical ordered set of period labels. The source
// documents always publish six periods; the label rows in the document are
// only checked for presence, not content.
var PairNames = []string{"1 пара", "2 пара", "3 пара", "4 пара", "5 пара", "6 пара"}

// PairTimes is the canonical time-range label for each period, index-aligned
// with PairNames.
var PairTimes = []string{
	"08:30 - 10:05",
	"10:15 - 11:50",
	"12:00 - 13:35",
	"13:45 - 15:20",
	"15:40 - 17:15",
	"17:25 - 19:00",
}

// Header is the classified first row of a schedule table.
type Header struct {
	// Date is the free-text date label, verbatim from the source
	// (e.g. "16 января"). It is the schedule's identity.
	Date string

	// Weekday is the uppercase weekday token following the date.
	Weekday string
}

// Lesson is one decoded period entry. Subject is always non-empty: a cell
// that yields no subject yields no Lesson. Teacher and Room are optional and
// empty when the cell did not carry them.
type Lesson struct {
	Pair    string `json:"pair"`
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher,omitempty"`
	Room    string `json:"room,omitempty"`
}

// GroupRow is one decoded group row: the cohort code and its lessons,
// sorted by start time.
type GroupRow struct {
	Code    string
	Lessons []Lesson
}
