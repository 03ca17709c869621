package codec

import (
	"encoding/json"
	"io"

	"github.com/fwojciec/htmltable"
)

var _ htmltable.Encoder = (*JSONEncoder)(nil)

// JSONEncoder writes the result as JSON. Records become objects with keys
// in column order.
type JSONEncoder struct{}

// NewJSONEncoder creates a new JSONEncoder.
func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

// Encode writes the JSON form of result to w.
func (e *JSONEncoder) Encode(w io.Writer, result *htmltable.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return htmltable.Errorf(htmltable.EINTERNAL, "failed to encode JSON: %v", err)
	}
	_, err = w.Write(data)
	return err
}

// DecodeJSON reads a result written by JSONEncoder.
func DecodeJSON(r io.Reader) (*htmltable.Result, error) {
	var result htmltable.Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, htmltable.Errorf(htmltable.EINVALID, "failed to decode JSON: %v", err)
	}
	return &result, nil
}
