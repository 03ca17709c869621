// Package rod provides a browser-based implementation of htmltable.Fetcher
// for pages whose tables are built by JavaScript.
package rod

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/htmltable"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default timeout for a page load.
const DefaultFetchTimeout = 60 * time.Second

// Ensure Fetcher implements htmltable.Fetcher at compile time.
var _ htmltable.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Only GET requests are supported.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single page load.
// Defaults to DefaultFetchTimeout (60s) if not specified or not positive.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	// Launch browser using rod's launcher (finds or downloads Chrome)
	l := launcher.New().Leakless(true).Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to the request URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, req *htmltable.Request) (*htmltable.Document, error) {
	if f.closed.Load() {
		return nil, htmltable.Errorf(htmltable.EINVALID, "fetcher is closed")
	}
	if m := strings.ToLower(req.Method); m != "" && m != htmltable.MethodGet {
		return nil, htmltable.Errorf(htmltable.EINVALID, "browser fetcher does not support method %q", req.Method)
	}
	target, err := withQuery(req.URL, req.Params)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	begin := time.Now()
	html, info, err := f.render(ctx, target, req)
	if err != nil {
		return nil, htmltable.Errorf(htmltable.EFETCH, "failed to get html from %s: %w", req.URL, err)
	}
	info.Size = int64(len(html))
	info.ContentLength = -1
	info.Total = time.Since(begin)

	return &htmltable.Document{HTML: html, Transfer: info}, nil
}

func (f *Fetcher) render(ctx context.Context, target string, req *htmltable.Request) (string, htmltable.TransferInfo, error) {
	var info htmltable.TransferInfo

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", info, err
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if req.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: req.UserAgent}); err != nil {
			return "", info, err
		}
	}
	if req.Auth {
		token := base64.StdEncoding.EncodeToString([]byte(req.Username + ":" + req.Password))
		cleanup, err := page.SetExtraHeaders([]string{"Authorization", "Basic " + token})
		if err != nil {
			return "", info, err
		}
		defer cleanup()
	}

	// Subscribe before navigating so the document response is not missed.
	var response *proto.NetworkResponse
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		response = e.Response
		return true
	})

	if err := page.Navigate(target); err != nil {
		return "", info, err
	}
	waitResponse()
	if err := ctx.Err(); err != nil {
		return "", info, err
	}
	if response != nil {
		info.StatusCode = response.Status
		info.ContentType = response.MIMEType
		if response.Status < 200 || response.Status > 299 {
			return "", info, fmt.Errorf("HTTP %d", response.Status)
		}
	}
	if err := page.WaitLoad(); err != nil {
		return "", info, err
	}

	html, err := page.HTML()
	if err != nil {
		return "", info, err
	}

	info.URL = target
	if pageInfo, err := page.Info(); err == nil {
		info.URL = pageInfo.URL
	}
	info.UserAgent = req.UserAgent
	return html, info, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := f.browser.Close()
	f.launcher.Kill()
	return err
}

// withQuery appends encoded params to rawURL.
func withQuery(rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", htmltable.Errorf(htmltable.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if query := params.Encode(); query != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&" + query
		} else {
			u.RawQuery = query
		}
	}
	return u.String(), nil
}
