package grid

import (
	"fmt"
)

// NoSelection is the empty sentinel returned when no cell is covered.
var NoSelection = Selection{Col: -1, Row: -1, ColSpan: -1, RowSpan: -1}

// Selection is a contiguous rectangular range of cell indices.
// Spans are inclusive: a ColSpan of 0 covers exactly one column.
type Selection struct {
	// Col is the index of the leftmost selected column.
	Col int `json:"col" jsonschema:"title=Column,minimum=0"`
	// Row is the index of the topmost selected row.
	Row int `json:"row" jsonschema:"title=Row,minimum=0"`
	// ColSpan is the number of additional columns to the right of Col.
	ColSpan int `json:"colSpan" jsonschema:"title=Column Span,minimum=0"`
	// RowSpan is the number of additional rows below Row.
	RowSpan int `json:"rowSpan" jsonschema:"title=Row Span,minimum=0"`
}

// IsEmpty reports whether s selects no cells.
func (s Selection) IsEmpty() bool {
	return s.Col < 0 || s.Row < 0 || s.ColSpan < 0 || s.RowSpan < 0
}

// Contains reports whether the cell (x, y) is within the selection.
func (s Selection) Contains(x, y int) bool {
	if s.IsEmpty() {
		return false
	}

	return x >= s.Col && x-s.Col <= s.ColSpan &&
		y >= s.Row && y-s.Row <= s.RowSpan
}

// LastCol returns the index of the rightmost selected column.
func (s Selection) LastCol() int {
	return s.Col + s.ColSpan
}

// LastRow returns the index of the bottom selected row.
func (s Selection) LastRow() int {
	return s.Row + s.RowSpan
}

// Within reports whether every index of s lies in [0, cols) x [0, rows).
func (s Selection) Within(cols, rows int) bool {
	if s.IsEmpty() {
		return false
	}

	// Compare spans against the remaining room so large spans cannot overflow.
	return s.Col < cols && s.ColSpan < cols-s.Col &&
		s.Row < rows && s.RowSpan < rows-s.Row
}

func (s Selection) String() string {
	if s.IsEmpty() {
		return "none"
	}

	return fmt.Sprintf("%d,%d,%d,%d", s.Col, s.Row, s.ColSpan, s.RowSpan)
}

// ParseSelection parses a "COL,ROW,COLSPAN,ROWSPAN" string as produced by
// [Selection.String].
func ParseSelection(s string) (Selection, error) {
	var sel Selection

	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &sel.Col, &sel.Row, &sel.ColSpan, &sel.RowSpan)
	if err != nil || n != 4 {
		return NoSelection, fmt.Errorf("parse selection %q: expected COL,ROW,COLSPAN,ROWSPAN", s)
	}
	if sel.IsEmpty() {
		return NoSelection, fmt.Errorf("parse selection %q: indices must not be negative", s)
	}

	return sel, nil
}
