// Package core provides the business logic for contact cleaning.
// This package has no file or UI dependencies and can be driven by any frontend.
package core

import "log/slog"

// EmailColumn is the header name of the multi-value email field.
const EmailColumn = "Email"

// Header is the ordered list of column names read from the first line of input.
// The same header is reused unchanged for the output file.
type Header []string

// Index returns the position of the first column named name, or -1.
func (h Header) Index(name string) int {
	for i, col := range h {
		if col == name {
			return i
		}
	}
	return -1
}

// Equal reports whether both headers have the same names in the same order.
func (h Header) Equal(other Header) bool {
	if len(h) != len(other) {
		return false
	}
	for i := range h {
		if h[i] != other[i] {
			return false
		}
	}
	return true
}

// Record is one data row. Values are aligned with Header.
type Record struct {
	Header Header
	Values []string
	Line   int // 1-based source line, 0 when built in memory
}

// Clone returns a deep copy whose Values are padded to the header width.
func (r Record) Clone() Record {
	n := len(r.Values)
	if len(r.Header) > n {
		n = len(r.Header)
	}
	values := make([]string, n)
	copy(values, r.Values)
	return Record{Header: r.Header, Values: values, Line: r.Line}
}

// LogValue implements slog.LogValuer so a record logs as column=value pairs.
func (r Record) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(r.Header))
	for i, col := range r.Header {
		v := ""
		if i < len(r.Values) {
			v = r.Values[i]
		}
		attrs = append(attrs, slog.String(col, v))
	}
	return slog.GroupValue(attrs...)
}

// Source yields records one at a time in input order.
// Next returns io.EOF once the input is exhausted.
type Source interface {
	Header() Header
	Next() (Record, error)
}

// Sink receives emitted records in output order.
type Sink interface {
	WriteRecord(Record) error
}

// Stats summarizes one engine run.
type Stats struct {
	RowsRead    int // data rows pulled from the source
	RowsBlank   int // rows skipped because the raw Email value was empty
	Candidates  int // email candidates produced by splitting
	Duplicates  int // candidates dropped because the address was already seen
	RowsEmitted int // records handed to the sink
}
