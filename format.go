package htmltable

import (
	"io"
	"strings"
)

// Format selects the output encoding of a Result.
type Format string

// Supported output formats.
const (
	FormatArray     Format = "array"
	FormatJSON      Format = "json"
	FormatSerialize Format = "serialize"
	FormatYAML      Format = "yaml"
	FormatXML       Format = "xml"
	FormatMarkdown  Format = "markdown"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatArray, FormatJSON, FormatSerialize, FormatYAML, FormatXML, FormatMarkdown}
}

// ParseFormat resolves a format name case-insensitively.
// An empty name selects FormatArray.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatArray, nil
	}
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return FormatArray, Errorf(EINVALID, "unknown output format %q", s)
}

// Encoder writes a Result in a particular format.
type Encoder interface {
	Encode(w io.Writer, result *Result) error
}

// EncoderRegistry maps formats to encoders.
type EncoderRegistry interface {
	// Get returns the encoder for format.
	// Returns nil if no encoder is registered for the format.
	Get(format Format) Encoder

	// Register adds an encoder for a format, replacing any existing one.
	Register(format Format, encoder Encoder)

	// List returns all registered formats.
	List() []Format
}
