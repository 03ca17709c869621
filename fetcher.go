package htmltable

import (
	"context"
	"net/url"
	"time"
)

// HTTP methods accepted by Request.
const (
	MethodGet  = "get"
	MethodPost = "post"
)

// Request describes a document to fetch.
type Request struct {
	URL string

	// Params are appended to the query string for GET and sent as a form
	// body for POST.
	Params url.Values
	Method string

	// Basic auth credentials, sent only when Auth is set.
	Auth     bool
	Username string
	Password string

	// UserAgent replaces the client's default user agent when non-empty.
	UserAgent string
}

// TransferInfo describes how a document was retrieved.
type TransferInfo struct {
	URL           string // effective URL after redirects
	StatusCode    int
	Redirects     int
	ContentType   string
	ContentLength int64 // as declared by the server, -1 when unknown
	Size          int64 // bytes actually read
	Total         time.Duration
	DNS           time.Duration
	Connect       time.Duration
	FirstByte     time.Duration
	UserAgent     string // empty when the client sent its default
	Server        string
}

// Document is a fetched HTML document.
type Document struct {
	HTML     string
	Transfer TransferInfo
}

// Fetcher retrieves HTML documents.
type Fetcher interface {
	// Fetch retrieves the document described by req.
	// Transport failures and non-2xx responses return EFETCH.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, req *Request) (*Document, error)

	// Close releases resources held by the fetcher.
	Close() error
}
