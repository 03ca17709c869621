package htmltable

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Row is one extracted data row. Label holds the text of the first
// header-style cell found in the row, if any.
type Row struct {
	Label   string
	Labeled bool
	Record  Record
}

// Table holds the rows extracted from one <table> element.
type Table struct {
	// Name is the caption text, the id attribute, or the ordinal position of
	// the table. It is only set when collecting all tables.
	Name string
	Rows []Row
}

// Entry is a row keyed for output.
type Entry struct {
	Key    string
	Record Record
}

// Labeled reports whether any row carries a label.
func (t Table) Labeled() bool {
	for _, r := range t.Rows {
		if r.Labeled {
			return true
		}
	}
	return false
}

// Records returns the row records in order.
func (t Table) Records() []Record {
	records := make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		records = append(records, r.Record)
	}
	return records
}

// Entries returns the rows keyed by label, falling back to the row's
// sequential position for unlabeled rows. A repeated key replaces the
// earlier record in place.
func (t Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.Rows))
	seen := make(map[string]int, len(t.Rows))
	for i, r := range t.Rows {
		key := strconv.Itoa(i)
		if r.Labeled {
			key = r.Label
		}
		if idx, ok := seen[key]; ok {
			entries[idx].Record = r.Record
			continue
		}
		seen[key] = len(entries)
		entries = append(entries, Entry{Key: key, Record: r.Record})
	}
	return entries
}

// MarshalJSON encodes the table as an array of records, or as an object
// keyed by row label when any row is labeled.
func (t Table) MarshalJSON() ([]byte, error) {
	if !t.Labeled() {
		return json.Marshal(t.Records())
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, e.Key, e.Record); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes either form written by MarshalJSON. Object members
// become labeled rows. The table name is not part of the encoding.
func (t *Table) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []Record
		if err := json.Unmarshal(data, &records); err != nil {
			return err
		}
		t.Rows = nil
		for _, rec := range records {
			t.Rows = append(t.Rows, Row{Record: rec})
		}
		return nil
	}
	var rows []Row
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("row %q: %w", key, err)
		}
		rows = append(rows, Row{Label: key, Labeled: true, Record: rec})
		return nil
	})
	if err != nil {
		return err
	}
	t.Rows = rows
	return nil
}

// Result is the outcome of one extraction. In single-table mode Tables
// holds exactly one table. When All is set it holds one table per processed
// <table> element, in document order, each with a distinct Name.
type Result struct {
	All    bool
	Tables []Table
}

// First returns the first table, or an empty table.
func (r *Result) First() Table {
	if len(r.Tables) == 0 {
		return Table{}
	}
	return r.Tables[0]
}

// MarshalJSON encodes single-table results as the table itself and
// collect-all results as an object keyed by table name.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.All {
		return json.Marshal(r.First())
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range r.Tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, t.Name, t); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an encoded Result. A top-level list, or an object
// whose members are records, is a single table; any other object is a
// collect-all result.
func (r *Result) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == '[' || labeledTable(data)) {
		var t Table
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		r.All = false
		r.Tables = []Table{t}
		return nil
	}
	var tables []Table
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		var t Table
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("table %q: %w", key, err)
		}
		t.Name = key
		tables = append(tables, t)
		return nil
	})
	if err != nil {
		return err
	}
	r.All = true
	r.Tables = tables
	return nil
}

// errStop ends an object walk early.
var errStop = errors.New("stop")

// labeledTable reports whether the top-level object data is a table keyed by
// row label. Its first member is then a record: an object that is empty or
// holds strings. The members of a collect-all object are tables, which
// encode as lists or as objects of records.
func labeledTable(data []byte) bool {
	labeled := false
	_ = decodeObject(data, func(_ string, raw json.RawMessage) error {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			return errStop
		}
		labeled = true
		_ = decodeObject(raw, func(_ string, value json.RawMessage) error {
			value = bytes.TrimSpace(value)
			labeled = len(value) > 0 && value[0] == '"'
			return errStop
		})
		return errStop
	})
	return labeled
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
