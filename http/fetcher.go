// Package http provides an HTTP-based implementation of htmltable.Fetcher.
package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/htmltable"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 60 * time.Second

// Ensure Fetcher implements htmltable.Fetcher at compile time.
var _ htmltable.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content using plain HTTP requests. It does not
// execute JavaScript.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (60s) if not specified or not positive.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the document described by req. Params are sent as the
// query string for GET and as a form body for POST.
func (f *Fetcher) Fetch(ctx context.Context, req *htmltable.Request) (*htmltable.Document, error) {
	httpReq, err := newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var info htmltable.TransferInfo
	var dnsStart, connectStart time.Time
	begin := time.Now()
	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) { dnsStart = time.Now() },
		DNSDone: func(httptrace.DNSDoneInfo) {
			if !dnsStart.IsZero() {
				info.DNS = time.Since(dnsStart)
			}
		},
		ConnectStart: func(string, string) { connectStart = time.Now() },
		ConnectDone: func(string, string, error) {
			if !connectStart.IsZero() {
				info.Connect = time.Since(connectStart)
			}
		},
		GotFirstResponseByte: func() { info.FirstByte = time.Since(begin) },
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), trace))

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, htmltable.Errorf(htmltable.EFETCH, "failed to get html from %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, htmltable.Errorf(htmltable.EFETCH, "failed to get html from %s: HTTP %d", req.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, htmltable.Errorf(htmltable.EFETCH, "failed to read html from %s: %w", req.URL, err)
	}

	info.URL = resp.Request.URL.String()
	info.StatusCode = resp.StatusCode
	info.Redirects = countRedirects(resp)
	info.ContentType = resp.Header.Get("Content-Type")
	info.ContentLength = resp.ContentLength
	info.Size = int64(len(body))
	info.Total = time.Since(begin)
	info.UserAgent = resp.Request.Header.Get("User-Agent")
	info.Server = resp.Header.Get("Server")

	return &htmltable.Document{HTML: string(body), Transfer: info}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// newRequest builds the HTTP request for req.
func newRequest(ctx context.Context, req *htmltable.Request) (*http.Request, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "invalid URL %q: %v", req.URL, err)
	}
	query := req.Params.Encode()

	var httpReq *http.Request
	switch strings.ToLower(req.Method) {
	case "", htmltable.MethodGet:
		if query != "" {
			if u.RawQuery != "" {
				u.RawQuery += "&" + query
			} else {
				u.RawQuery = query
			}
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	case htmltable.MethodPost:
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(query))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	default:
		return nil, htmltable.Errorf(htmltable.EINVALID, "unsupported method %q", req.Method)
	}
	if err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "creating request: %v", err)
	}

	if req.Auth {
		httpReq.SetBasicAuth(req.Username, req.Password)
	}
	if req.UserAgent != "" {
		httpReq.Header.Set("User-Agent", req.UserAgent)
	}
	return httpReq, nil
}

// countRedirects walks back through the responses that led to resp.
func countRedirects(resp *http.Response) int {
	n := 0
	for r := resp.Request; r != nil && r.Response != nil; r = r.Response.Request {
		n++
	}
	return n
}
