package mock

import (
	"context"

	"github.com/fwojciec/htmltable"
)

var _ htmltable.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of htmltable.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, req *htmltable.Request) (*htmltable.Document, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, req *htmltable.Request) (*htmltable.Document, error) {
	return f.FetchFn(ctx, req)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
