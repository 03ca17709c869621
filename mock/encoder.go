package mock

import (
	"io"

	"github.com/fwojciec/htmltable"
)

var _ htmltable.Encoder = (*Encoder)(nil)

// Encoder is a mock implementation of htmltable.Encoder.
type Encoder struct {
	EncodeFn func(w io.Writer, result *htmltable.Result) error
}

func (e *Encoder) Encode(w io.Writer, result *htmltable.Result) error {
	return e.EncodeFn(w, result)
}

var _ htmltable.EncoderRegistry = (*EncoderRegistry)(nil)

// EncoderRegistry is a mock implementation of htmltable.EncoderRegistry.
type EncoderRegistry struct {
	GetFn      func(format htmltable.Format) htmltable.Encoder
	RegisterFn func(format htmltable.Format, encoder htmltable.Encoder)
	ListFn     func() []htmltable.Format
}

func (r *EncoderRegistry) Get(format htmltable.Format) htmltable.Encoder {
	return r.GetFn(format)
}

func (r *EncoderRegistry) Register(format htmltable.Format, encoder htmltable.Encoder) {
	r.RegisterFn(format, encoder)
}

func (r *EncoderRegistry) List() []htmltable.Format {
	return r.ListFn()
}
