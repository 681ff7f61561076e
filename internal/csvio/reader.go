package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/JonMunkholm/contactclean/internal/core"
)

// Reader is a header-driven, single-pass CSV record stream.
// It implements core.Source.
type Reader struct {
	path   string
	file   afero.File
	count  *CountingReader
	csv    *csv.Reader
	header core.Header
}

// OpenReader opens path, strips an optional BOM and reads the header line.
// The caller must Close the reader.
func OpenReader(fs afero.Fs, path string) (*Reader, error) {
	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &FileError{Op: "open input", Path: path, Err: core.ErrNotFound}
		}
		return nil, &FileError{Op: "open input", Path: path, Err: err}
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		if info.IsDir() {
			f.Close()
			return nil, &FileError{Op: "open input", Path: path, Err: errors.New("is a directory")}
		}
		size = info.Size()
	}

	// Count raw bytes so progress is measured against the file size.
	count := NewCountingReader(f, size)
	cr := csv.NewReader(NewBOMSkippingReader(count))
	// Column counts are checked against the header in Next.
	cr.FieldsPerRecord = -1

	r := &Reader{
		path:  path,
		file:  f,
		count: count,
		csv:   cr,
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		f.Close()
		return nil, &FormatError{Path: path, Err: fmt.Errorf("%w: no header line", core.ErrEmptyFile)}
	}
	if err != nil {
		f.Close()
		return nil, r.parseError(err)
	}
	if err := r.checkEncoding(header, 1); err != nil {
		f.Close()
		return nil, err
	}

	r.header = core.Header(header)
	return r, nil
}

// Header returns the column names from the first line.
func (r *Reader) Header() core.Header {
	return r.header
}

// Next returns the next data record, or io.EOF once the file is exhausted.
// Blank lines are skipped. Rows shorter than the header are padded with
// empty values; longer rows are rejected.
func (r *Reader) Next() (core.Record, error) {
	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return core.Record{}, io.EOF
	}
	if err != nil {
		return core.Record{}, r.parseError(err)
	}

	line, _ := r.csv.FieldPos(0)

	if len(fields) > len(r.header) {
		return core.Record{}, &FormatError{
			Path: r.path,
			Line: line,
			Err:  fmt.Errorf("row has %d columns, header has %d", len(fields), len(r.header)),
		}
	}
	if err := r.checkEncoding(fields, line); err != nil {
		return core.Record{}, err
	}

	for len(fields) < len(r.header) {
		fields = append(fields, "")
	}

	return core.Record{Header: r.header, Values: fields, Line: line}, nil
}

// BytesRead returns how many bytes of the file have been consumed.
func (r *Reader) BytesRead() int64 {
	return r.count.BytesRead
}

// Progress returns the read progress as a percentage (0-100).
func (r *Reader) Progress() int {
	return r.count.Progress()
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

func (r *Reader) parseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Path: r.path, Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("read %s: %w", r.path, err)
}

func (r *Reader) checkEncoding(fields []string, line int) error {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return &EncodingError{Path: r.path, Line: line}
		}
	}
	return nil
}
