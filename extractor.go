package htmltable

// Extractor converts the tables of an HTML document into a Result.
type Extractor interface {
	// Extract parses html and returns the records of the table (or tables)
	// selected by cfg. Malformed markup is tolerated. Returns ENOTFOUND when
	// cfg.TableID is set and no table carries that id.
	Extract(html string, cfg Config) (*Result, error)
}
