// Package htmltable converts HTML tables into ordered records.
// It locates tables in a fetched or literal HTML document, derives column
// keys from header cells, applies column filters, and encodes the result
// in one of several output formats.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/).
package htmltable
