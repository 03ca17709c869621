// Package goquery implements htmltable.Extractor on top of goquery.
package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/htmltable"
)

// Ensure Extractor implements htmltable.Extractor at compile time.
var _ htmltable.Extractor = (*Extractor)(nil)

// hiddenRe matches inline styles that hide a row.
var hiddenRe = regexp.MustCompile(`(?i)display\s*:\s*none`)

// Extractor converts HTML tables into records.
// Extractor holds no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and extracts the table, or all tables, selected by cfg.
//
// Tables are visited in document order. With cfg.TableID set only tables
// whose id attribute equals it are considered. Without cfg.All extraction
// stops at the first match; a document without any table then yields a
// single empty table.
func (e *Extractor) Extract(html string, cfg htmltable.Config) (*htmltable.Result, error) {
	cfg = cfg.Normalize()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(toUTF8(html)))
	if err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &htmltable.Result{All: cfg.All}
	seen := make(map[string]bool)
	matched := false

	doc.Find("table").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if cfg.TableID != "" {
			if id, ok := sel.Attr("id"); !ok || id != cfg.TableID {
				return true
			}
		}
		matched = true

		table := extractTable(sel, cfg)
		if !cfg.All {
			result.Tables = []htmltable.Table{table}
			return false
		}

		ordinal := strconv.Itoa(len(result.Tables))
		name := tableName(sel)
		if name == "" || seen[name] {
			name = ordinal
		}
		for seen[name] {
			name += "_" + ordinal
		}
		seen[name] = true
		table.Name = name
		result.Tables = append(result.Tables, table)
		return true
	})

	if cfg.TableID != "" && !matched {
		return nil, htmltable.Errorf(htmltable.ENOTFOUND, "table %q not found", cfg.TableID)
	}
	if !cfg.All && len(result.Tables) == 0 {
		result.Tables = []htmltable.Table{{}}
	}

	return result, nil
}

// tableName returns the caption text, or the id attribute.
func tableName(sel *goquery.Selection) string {
	if caption := sel.ChildrenFiltered("caption").First(); caption.Length() > 0 {
		if name := cleanText(caption.Text()); name != "" {
			return name
		}
	}
	id, _ := sel.Attr("id")
	return cleanText(id)
}

// extractTable turns the rows of one table into records.
func extractTable(sel *goquery.Selection, cfg htmltable.Config) htmltable.Table {
	headers, rows := resolveHeaders(sel, cfg)

	var table htmltable.Table
	for _, tr := range rows {
		if cfg.IgnoreHidden && isHidden(tr) {
			continue
		}
		table.Rows = append(table.Rows, extractRow(tr, headers, cfg))
	}
	return table
}

// isHidden reports whether the row's inline style hides it. A row without a
// style attribute is visible.
func isHidden(tr *goquery.Selection) bool {
	style, ok := tr.Attr("style")
	return ok && hiddenRe.MatchString(style)
}

// extractRow builds the record of one data row. The first header-style cell
// labels the row; the other cells are keyed by override, header name or
// position, in that order, and filtered by the column lists.
func extractRow(tr *goquery.Selection, headers headerMap, cfg htmltable.Config) htmltable.Row {
	var row htmltable.Row
	position := 0
	tr.Children().Each(func(_ int, cell *goquery.Selection) {
		switch goquery.NodeName(cell) {
		case "th":
			if !row.Labeled {
				row.Label = cleanText(cell.Text())
				row.Labeled = true
			}
		case "td":
			key := columnKey(position, headers, cfg.Headers)
			if keepColumn(key, position, cfg) {
				row.Record.Set(key, cleanText(cell.Text()))
			}
		default:
			return
		}
		position++
	})
	return row
}

// columnKey resolves the key of the column at position.
func columnKey(position int, headers headerMap, overrides map[int]string) htmltable.Key {
	if name, ok := overrides[position]; ok {
		return htmltable.NameKey(name)
	}
	if name, ok := headers.name(position); ok {
		return htmltable.NameKey(name)
	}
	return htmltable.IndexKey(position)
}

// keepColumn applies the include or exclude list.
func keepColumn(key htmltable.Key, position int, cfg htmltable.Config) bool {
	switch {
	case len(cfg.OnlyColumns) > 0:
		return cfg.OnlyColumns.Matches(key, position)
	case len(cfg.IgnoreColumns) > 0:
		return !cfg.IgnoreColumns.Matches(key, position)
	}
	return true
}
