// Package table implements the extraction workflow: obtain the HTML, locate
// and extract the tables, and encode the result.
package table

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/fwojciec/htmltable"
	"github.com/fwojciec/htmltable/codec"
)

// Output is the outcome of one extraction. Encoded is nil when the encoded
// result was printed instead.
type Output struct {
	Result  *htmltable.Result
	Encoded []byte
}

// Service runs extractions.
type Service struct {
	fetcher   htmltable.Fetcher
	extractor htmltable.Extractor
	encoders  htmltable.EncoderRegistry
	stdout    io.Writer
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithEncoders sets the encoder registry. Defaults to codec.NewRegistry().
func WithEncoders(encoders htmltable.EncoderRegistry) Option {
	return func(s *Service) {
		s.encoders = encoders
	}
}

// WithStdout sets the writer used when printing. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(s *Service) {
		s.stdout = w
	}
}

// WithLogger sets the logger for warnings. Defaults to discarding them.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a Service. The fetcher may be nil when only literal
// HTML is extracted.
func NewService(fetcher htmltable.Fetcher, extractor htmltable.Extractor, opts ...Option) *Service {
	s := &Service{
		fetcher:   fetcher,
		extractor: extractor,
		encoders:  codec.NewRegistry(),
		stdout:    os.Stdout,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extract fetches rawURL with params and extracts from the returned HTML.
// A failed fetch ends the extraction with the fetch error.
func (s *Service) Extract(ctx context.Context, cfg htmltable.Config, rawURL string, params url.Values) (*Output, error) {
	cfg = cfg.Normalize()
	if rawURL == "" {
		return nil, htmltable.Errorf(htmltable.EINVALID, "url required")
	}
	if s.fetcher == nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "no fetcher configured")
	}
	encoder, err := s.encoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	doc, err := s.fetcher.Fetch(ctx, cfg.Request(rawURL, params))
	if err != nil {
		return nil, err
	}
	return s.run(cfg, doc.HTML, encoder)
}

// ExtractHTML extracts from literal HTML without fetching anything.
func (s *Service) ExtractHTML(ctx context.Context, cfg htmltable.Config, html string) (*Output, error) {
	cfg = cfg.Normalize()
	encoder, err := s.encoder(cfg.Format)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.run(cfg, html, encoder)
}

func (s *Service) encoder(format htmltable.Format) (htmltable.Encoder, error) {
	encoder := s.encoders.Get(format)
	if encoder == nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "unsupported output format %q", format)
	}
	return encoder, nil
}

func (s *Service) run(cfg htmltable.Config, html string, encoder htmltable.Encoder) (*Output, error) {
	result, err := s.extractor.Extract(html, cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.Silent && empty(result) {
		s.logger.Warn("no table rows found", "table_id", cfg.TableID, "all", cfg.All)
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, result); err != nil {
		return nil, err
	}

	if !cfg.Print {
		return &Output{Result: result, Encoded: buf.Bytes()}, nil
	}
	if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}
	if _, err := s.stdout.Write(buf.Bytes()); err != nil {
		return nil, htmltable.Errorf(htmltable.EINTERNAL, "failed to print result: %v", err)
	}
	return &Output{Result: result}, nil
}

func empty(result *htmltable.Result) bool {
	for _, t := range result.Tables {
		if len(t.Rows) > 0 {
			return false
		}
	}
	return true
}
