package codec

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/fwojciec/htmltable"
)

var _ htmltable.Encoder = (*ArrayEncoder)(nil)

// ArrayEncoder pretty-prints the result as a plain Go value.
type ArrayEncoder struct {
	config *spew.ConfigState
}

// NewArrayEncoder creates a new ArrayEncoder.
func NewArrayEncoder() *ArrayEncoder {
	return &ArrayEncoder{
		config: &spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			DisableMethods:          true,
		},
	}
}

// Encode dumps the result to w.
func (e *ArrayEncoder) Encode(w io.Writer, result *htmltable.Result) error {
	e.config.Fdump(w, plainResult(result))
	return nil
}

// Cell is one column of a plain row.
type Cell struct {
	Key   string
	Value string
}

// Entry is one keyed row of a plain table.
type Entry struct {
	Key   string
	Cells []Cell
}

// Table is a named plain table.
type Table struct {
	Name    string
	Entries []Entry
}

// plainResult strips the result down to strings and slices, keeping the
// column and row order. Single-table results become the entries of the first
// table.
func plainResult(result *htmltable.Result) any {
	if !result.All {
		return plainEntries(result.First())
	}
	tables := make([]Table, 0, len(result.Tables))
	for _, t := range result.Tables {
		tables = append(tables, Table{Name: t.Name, Entries: plainEntries(t)})
	}
	return tables
}

func plainEntries(t htmltable.Table) []Entry {
	entries := make([]Entry, 0, len(t.Rows))
	for _, e := range t.Entries() {
		cells := make([]Cell, 0, e.Record.Len())
		for _, f := range e.Record.Fields {
			cells = append(cells, Cell{Key: f.Key.String(), Value: f.Value})
		}
		entries = append(entries, Entry{Key: e.Key, Cells: cells})
	}
	return entries
}
