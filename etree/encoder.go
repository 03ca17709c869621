// Package etree implements the xml output format on top of beevik/etree.
package etree

import (
	"io"

	"github.com/beevik/etree"
	"github.com/fwojciec/htmltable"
)

// Ensure Encoder implements htmltable.Encoder at compile time.
var _ htmltable.Encoder = (*Encoder)(nil)

// Encoder writes results as XML documents.
//
// A table becomes a <table> element holding one <row> per entry and one
// <cell> per column. Rows carry their entry key, plus a label attribute when
// they were labeled in the source. Collect-all results wrap the tables in a
// <tables> root and name each table.
type Encoder struct {
	indent int
}

// NewEncoder creates a new Encoder.
func NewEncoder() *Encoder {
	return &Encoder{indent: 2}
}

// Encode writes the XML form of result to w.
func (e *Encoder) Encode(w io.Writer, result *htmltable.Result) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	if result.All {
		root := doc.CreateElement("tables")
		for _, t := range result.Tables {
			el := tableElement(root, t)
			el.CreateAttr("name", t.Name)
		}
	} else {
		tableElement(&doc.Element, result.First())
	}

	doc.Indent(e.indent)
	if _, err := doc.WriteTo(w); err != nil {
		return htmltable.Errorf(htmltable.EINTERNAL, "failed to write XML: %v", err)
	}
	return nil
}

func tableElement(parent *etree.Element, t htmltable.Table) *etree.Element {
	el := parent.CreateElement("table")
	labeled := t.Labeled()
	for _, entry := range t.Entries() {
		row := el.CreateElement("row")
		row.CreateAttr("key", entry.Key)
		if labeled {
			row.CreateAttr("label", entry.Key)
		}
		for _, f := range entry.Record.Fields {
			cell := row.CreateElement("cell")
			cell.CreateAttr("key", f.Key.String())
			cell.SetText(f.Value)
		}
	}
	return el
}

// Decode reads a document written by Encoder back into a Result.
func Decode(r io.Reader) (*htmltable.Result, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "failed to parse XML: %v", err)
	}

	root := doc.Root()
	switch {
	case root == nil:
		return nil, htmltable.Errorf(htmltable.EINVALID, "empty XML document")
	case root.Tag == "tables":
		result := &htmltable.Result{All: true}
		for _, el := range root.SelectElements("table") {
			t := decodeTable(el)
			t.Name = el.SelectAttrValue("name", "")
			result.Tables = append(result.Tables, t)
		}
		return result, nil
	case root.Tag == "table":
		return &htmltable.Result{Tables: []htmltable.Table{decodeTable(root)}}, nil
	}
	return nil, htmltable.Errorf(htmltable.EINVALID, "unexpected root element <%s>", root.Tag)
}

func decodeTable(el *etree.Element) htmltable.Table {
	var t htmltable.Table
	for _, rowEl := range el.SelectElements("row") {
		var row htmltable.Row
		if attr := rowEl.SelectAttr("label"); attr != nil {
			row.Label = attr.Value
			row.Labeled = true
		}
		for _, cell := range rowEl.SelectElements("cell") {
			row.Record.Set(htmltable.ParseKey(cell.SelectAttrValue("key", "")), cell.Text())
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
