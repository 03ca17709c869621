// Package slog provides log/slog decorators for the htmltable services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/htmltable"
)

// Ensure LoggingFetcher implements htmltable.Fetcher.
var _ htmltable.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging. A successful fetch is
// reported with a "got html" line; in verbose mode the transfer diagnostics
// are added to it.
type LoggingFetcher struct {
	next    htmltable.Fetcher
	logger  *slog.Logger
	verbose bool
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next htmltable.Fetcher, logger *slog.Logger, verbose bool) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger, verbose: verbose}
}

// Fetch logs the outcome of the request and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, req *htmltable.Request) (doc *htmltable.Document, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Error("failed to get html",
				"url", req.URL,
				"method", req.Method,
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		attrs := []any{
			"url", req.URL,
			"bytes", len(doc.HTML),
			"duration", time.Since(begin),
		}
		if f.verbose {
			attrs = append(attrs, transferAttrs(doc.Transfer)...)
		}
		f.logger.Info("got html", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, req)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

func transferAttrs(t htmltable.TransferInfo) []any {
	userAgent := t.UserAgent
	if userAgent == "" {
		userAgent = "default"
	}
	return []any{
		"effective_url", t.URL,
		"status", t.StatusCode,
		"redirects", t.Redirects,
		"content_type", t.ContentType,
		"content_length", t.ContentLength,
		"size", t.Size,
		"total", t.Total,
		"dns", t.DNS,
		"connect", t.Connect,
		"first_byte", t.FirstByte,
		"user_agent", userAgent,
		"server", t.Server,
	}
}
