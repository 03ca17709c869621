package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/htmltable"
)

// headerMap holds header keys by header row and column position.
// Only the first header row is used to key data cells.
type headerMap []map[int]string

// name returns the first-row header key at position.
func (h headerMap) name(position int) (string, bool) {
	if len(h) == 0 {
		return "", false
	}
	name, ok := h[0][position]
	return name, ok
}

// resolveHeaders reads the header keys of a table and returns them with the
// remaining data rows in document order.
//
// Rows of a <thead> supply the keys when present; otherwise the first row
// does when it contains header-style cells, and is then dropped from the
// data rows. Footer rows are never data rows.
func resolveHeaders(table *goquery.Selection, cfg htmltable.Config) (headerMap, []*goquery.Selection) {
	var headers headerMap
	var rows []*goquery.Selection

	thead := table.ChildrenFiltered("thead").First()
	if thead.Length() > 0 {
		thead.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
			headers = append(headers, headerRow(tr, cfg))
		})
	}

	table.Children().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "tbody":
			child.ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
				rows = append(rows, tr)
			})
		case "tr":
			rows = append(rows, child)
		}
	})

	if thead.Length() == 0 && len(rows) > 0 {
		if first := headerRow(rows[0], cfg); len(first) > 0 {
			headers = headerMap{first}
			rows = rows[1:]
		}
	}

	return headers, rows
}

// headerRow maps the positions of the header-style cells in tr to their
// keys. Data-style cells only advance the position.
func headerRow(tr *goquery.Selection, cfg htmltable.Config) map[int]string {
	keys := make(map[int]string)
	position := 0
	tr.Children().Each(func(_ int, cell *goquery.Selection) {
		switch goquery.NodeName(cell) {
		case "th":
			keys[position] = headerKey(cell, cfg)
		case "td":
		default:
			return
		}
		position++
	})
	return keys
}

// headerKey returns the cell's id attribute when configured and present,
// otherwise its text.
func headerKey(cell *goquery.Selection, cfg htmltable.Config) string {
	if cfg.HeaderIDs {
		if id, ok := cell.Attr("id"); ok {
			if key := cleanText(id); key != "" {
				return key
			}
		}
	}
	return cleanText(cell.Text())
}
