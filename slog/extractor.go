package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/htmltable"
)

// Ensure LoggingExtractor implements htmltable.Extractor.
var _ htmltable.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   htmltable.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next htmltable.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs the table and row counts and delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(html string, cfg htmltable.Config) (result *htmltable.Result, err error) {
	defer func(begin time.Time) {
		tables, rows := 0, 0
		if result != nil {
			tables = len(result.Tables)
			for _, t := range result.Tables {
				rows += len(t.Rows)
			}
		}
		e.logger.Debug("extract",
			"table_id", cfg.TableID,
			"all", cfg.All,
			"tables", tables,
			"rows", rows,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, cfg)
}
