// Package htmltomarkdown implements the markdown output format by rendering
// results as HTML tables and converting them with html-to-markdown.
package htmltomarkdown

import (
	"html"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/htmltable"
)

// Ensure Encoder implements htmltable.Encoder at compile time.
var _ htmltable.Encoder = (*Encoder)(nil)

// Encoder writes results as Markdown tables.
type Encoder struct {
	conv *converter.Converter
}

// NewEncoder creates a new Encoder.
func NewEncoder() *Encoder {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Encoder{conv: conv}
}

// Encode writes one Markdown table per table of result. In collect-all mode
// each table is preceded by a heading with its name.
func (e *Encoder) Encode(w io.Writer, result *htmltable.Result) error {
	var b strings.Builder
	if result.All {
		for _, t := range result.Tables {
			b.WriteString("<h2>" + html.EscapeString(t.Name) + "</h2>")
			renderTable(&b, t)
		}
	} else {
		renderTable(&b, result.First())
	}

	if b.Len() == 0 {
		return nil
	}
	md, err := e.conv.ConvertString(b.String())
	if err != nil {
		return htmltable.Errorf(htmltable.EINTERNAL, "failed to convert to markdown: %v", err)
	}
	_, err = io.WriteString(w, md+"\n")
	return err
}

// renderTable writes t as an HTML table. The columns are the union of the
// record keys in first-seen order; labeled tables get a leading column
// holding the entry key.
func renderTable(b *strings.Builder, t htmltable.Table) {
	entries := t.Entries()
	columns := columnsOf(entries)
	if len(columns) == 0 {
		return
	}
	labeled := t.Labeled()

	b.WriteString("<table><thead><tr>")
	if labeled {
		b.WriteString("<th></th>")
	}
	for _, k := range columns {
		b.WriteString("<th>" + html.EscapeString(k.String()) + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, e := range entries {
		b.WriteString("<tr>")
		if labeled {
			b.WriteString("<td>" + html.EscapeString(e.Key) + "</td>")
		}
		for _, k := range columns {
			v, _ := e.Record.Get(k)
			b.WriteString("<td>" + html.EscapeString(v) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

func columnsOf(entries []htmltable.Entry) []htmltable.Key {
	var columns []htmltable.Key
	seen := make(map[htmltable.Key]bool)
	for _, e := range entries {
		for _, k := range e.Record.Keys() {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	return columns
}
