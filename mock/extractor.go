package mock

import "github.com/fwojciec/htmltable"

var _ htmltable.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of htmltable.Extractor.
type Extractor struct {
	ExtractFn func(html string, cfg htmltable.Config) (*htmltable.Result, error)
}

func (e *Extractor) Extract(html string, cfg htmltable.Config) (*htmltable.Result, error) {
	return e.ExtractFn(html, cfg)
}
