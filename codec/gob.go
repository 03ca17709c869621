package codec

import (
	"encoding/gob"
	"io"

	"github.com/fwojciec/htmltable"
)

var _ htmltable.Encoder = (*GobEncoder)(nil)

// GobEncoder serializes the result with encoding/gob so that a Go program
// can restore it exactly, including keys and row labels.
type GobEncoder struct{}

// NewGobEncoder creates a new GobEncoder.
func NewGobEncoder() *GobEncoder {
	return &GobEncoder{}
}

// Encode writes the gob stream of result to w.
func (e *GobEncoder) Encode(w io.Writer, result *htmltable.Result) error {
	if err := gob.NewEncoder(w).Encode(result); err != nil {
		return htmltable.Errorf(htmltable.EINTERNAL, "failed to serialize result: %v", err)
	}
	return nil
}

// DecodeGob reads a result written by GobEncoder.
func DecodeGob(r io.Reader) (*htmltable.Result, error) {
	var result htmltable.Result
	if err := gob.NewDecoder(r).Decode(&result); err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "failed to deserialize result: %v", err)
	}
	return &result, nil
}
