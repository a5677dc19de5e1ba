// Package extract adapts parsed documents into the raw cell grids the
// schedule core consumes. The heavy lifting (OOXML parsing, merge
// resolution) is tabula's; this package only flattens its table model into
// positional rows of text cells.
package extract

import (
	"fmt"

	"github.com/tsawler/tabula/docx"

	"github.com/weifxx/timetable/internal/schedule"
)

// TablesFromDocx opens a DOCX file and returns every table in document order
// as a raw cell grid. Non-table content is ignored. Which of the grids are
// actual schedule tables is for the ingest path to decide.
func TablesFromDocx(path string) ([]schedule.Table, error) {
	r, err := docx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %q: %w", path, err)
	}
	defer r.Close()

	parsed := r.Tables()
	tables := make([]schedule.Table, 0, len(parsed))
	for _, pt := range parsed {
		tables = append(tables, Grid(pt))
	}
	return tables, nil
}

// Grid flattens one parsed table into rows of text cells. Multi-paragraph
// cells keep their internal newlines (the lesson decoder relies on them).
// Cells spanning multiple columns are padded with empty trailing cells so
// that later columns keep their positional alignment with the period slots.
func Grid(pt docx.ParsedTable) schedule.Table {
	grid := make(schedule.Table, 0, len(pt.Rows))
	for _, row := range pt.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			text := cell.Text
			if cell.IsMergedContinuation {
				text = ""
			}
			cells = append(cells, text)
			for i := 1; i < cell.ColSpan; i++ {
				cells = append(cells, "")
			}
		}
		grid = append(grid, cells)
	}
	return grid
}
