package goquery

import (
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// toUTF8 converts html to UTF-8 when a byte order mark, or a <meta>
// charset declaration on input that is not valid UTF-8, says it is in some
// other encoding. Valid UTF-8 input is returned unchanged.
func toUTF8(html string) string {
	e, name, certain := charset.DetermineEncoding([]byte(html), "")
	if name == "utf-8" || (!certain && utf8.ValidString(html)) {
		return html
	}
	decoded, err := e.NewDecoder().String(html)
	if err != nil {
		return html
	}
	return decoded
}
