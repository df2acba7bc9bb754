// Package review evaluates the filters and sort order of the review tables.
// Rows are already materialized in memory; every change re-runs the whole
// evaluation.
package review

import (
	"math/rand/v2"
	"slices"
	"strings"
)

// Row is one table row: the record ID plus its cells in display order.
type Row struct {
	ID    int64
	Cells []string
}

// Order is the sort applied to rows before filtering.
type Order int

const (
	Ascending Order = iota
	Descending
	Random
)

// ParseOrder maps "asc", "desc" and "random" to an Order. Anything else is Ascending.
func ParseOrder(s string) Order {
	switch s {
	case "desc":
		return Descending
	case "random":
		return Random
	default:
		return Ascending
	}
}

func (o Order) String() string {
	switch o {
	case Descending:
		return "desc"
	case Random:
		return "random"
	default:
		return "asc"
	}
}

// Label is the text shown on the sort toggle.
func (o Order) Label() string {
	switch o {
	case Descending:
		return "ID排序: 倒序"
	case Random:
		return "ID排序: 随机"
	default:
		return "ID排序: 正序"
	}
}

// Next cycles ascending, descending, random and back.
func (o Order) Next() Order {
	return (o + 1) % 3
}

// Sort orders rows by ID in place. Random draws a fresh shuffle from rnd.
func Sort(rows []Row, o Order, rnd *rand.Rand) {
	switch o {
	case Descending:
		slices.SortFunc(rows, func(a, b Row) int { return cmpID(b, a) })
	case Random:
		rnd.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	default:
		slices.SortFunc(rows, cmpID)
	}
}

func cmpID(a, b Row) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

// Criteria is a conjunction of a free-text keyword and exact column matches.
// Empty values are inactive.
type Criteria struct {
	Keyword string
	Equal   map[int]string
}

// Match reports whether a row satisfies every active predicate. The keyword
// is matched case-insensitively against the row's Text.
func (c Criteria) Match(r Row) bool {
	for col, want := range c.Equal {
		if want == "" {
			continue
		}
		if col < 0 || col >= len(r.Cells) || r.Cells[col] != want {
			return false
		}
	}
	if c.Keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Text()), strings.ToLower(c.Keyword))
}

// Text is the printable form of the whole row the keyword is matched against.
func (r Row) Text() string {
	return strings.Join(r.Cells, ", ")
}

// Filter returns the rows matching c, keeping their order.
func Filter(rows []Row, c Criteria) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
