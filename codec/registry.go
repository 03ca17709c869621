// Package codec provides the built-in encoders for extraction results and a
// registry that maps output formats to them.
package codec

import (
	"sort"

	"github.com/fwojciec/htmltable"
)

var _ htmltable.EncoderRegistry = (*Registry)(nil)

// Registry maps output formats to encoders.
type Registry struct {
	encoders map[htmltable.Format]htmltable.Encoder
}

// NewRegistry creates a Registry with the array, json, serialize and yaml
// encoders registered. Other formats are registered by the caller.
func NewRegistry() *Registry {
	r := &Registry{encoders: make(map[htmltable.Format]htmltable.Encoder)}
	r.Register(htmltable.FormatArray, NewArrayEncoder())
	r.Register(htmltable.FormatJSON, NewJSONEncoder())
	r.Register(htmltable.FormatSerialize, NewGobEncoder())
	r.Register(htmltable.FormatYAML, NewYAMLEncoder())
	return r
}

// Get returns the encoder for a format.
// Returns nil if no encoder is registered for the format.
func (r *Registry) Get(format htmltable.Format) htmltable.Encoder {
	return r.encoders[format]
}

// Register adds an encoder for a format.
// If an encoder is already registered for the format, it is replaced.
func (r *Registry) Register(format htmltable.Format, encoder htmltable.Encoder) {
	r.encoders[format] = encoder
}

// List returns all registered formats in name order.
func (r *Registry) List() []htmltable.Format {
	formats := make([]htmltable.Format, 0, len(r.encoders))
	for f := range r.encoders {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
