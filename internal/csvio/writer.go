package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/JonMunkholm/contactclean/internal/core"
)

var (
	errHeaderWritten    = errors.New("header already written")
	errHeaderNotWritten = errors.New("header must be written before records")
	errWriterClosed     = errors.New("writer is closed")
)

// WriterOptions controls the output encoding.
type WriterOptions struct {
	CRLF bool // terminate lines with \r\n instead of \n
	BOM  bool // prepend a UTF-8 BOM
}

// Writer serializes records in header order. It implements core.Sink.
type Writer struct {
	path        string
	file        afero.File
	csv         *csv.Writer
	header      core.Header
	newline     string
	bom         bool
	wroteHeader bool
	rows        int
	closed      bool
}

// CreateWriter creates path for writing. It never truncates: if path
// already exists the call fails with core.ErrAlreadyExists.
// The caller must Close the writer.
func CreateWriter(fs afero.Fs, path string, header core.Header, opts WriterOptions) (*Writer, error) {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, &FileError{Op: "create output", Path: path, Err: core.ErrAlreadyExists}
		}
		return nil, &FileError{Op: "create output", Path: path, Err: err}
	}

	cw := csv.NewWriter(f)
	cw.UseCRLF = opts.CRLF

	newline := "\n"
	if opts.CRLF {
		newline = "\r\n"
	}

	return &Writer{
		path:    path,
		file:    f,
		csv:     cw,
		header:  header,
		newline: newline,
		bom:     opts.BOM,
	}, nil
}

// WriteHeader writes the header row. It must be called exactly once,
// before any record.
func (w *Writer) WriteHeader() error {
	if w.closed {
		return errWriterClosed
	}
	if w.wroteHeader {
		return errHeaderWritten
	}
	if w.bom {
		if _, err := w.file.Write(utf8BOM[:]); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
	}
	if err := w.writeRow(w.header); err != nil {
		return err
	}
	w.wroteHeader = true
	return nil
}

// WriteRecord writes one record's values in header order. A record that
// carries a header must carry the writer's.
func (w *Writer) WriteRecord(rec core.Record) error {
	if w.closed {
		return errWriterClosed
	}
	if !w.wroteHeader {
		return errHeaderNotWritten
	}
	if rec.Header != nil && !rec.Header.Equal(w.header) {
		return fmt.Errorf("write %s: record header %v does not match %v", w.path, rec.Header, w.header)
	}
	if len(rec.Values) != len(w.header) {
		return fmt.Errorf("write %s: record has %d values, header has %d", w.path, len(rec.Values), len(w.header))
	}
	if err := w.writeRow(rec.Values); err != nil {
		return err
	}
	w.rows++
	return nil
}

// writeRow writes one line. A lone empty field is written as "" because
// encoding/csv would emit a blank line, which readers skip.
func (w *Writer) writeRow(values []string) error {
	if len(values) == 1 && values[0] == "" {
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
		if _, err := io.WriteString(w.file, `""`+w.newline); err != nil {
			return fmt.Errorf("write %s: %w", w.path, err)
		}
		return nil
	}

	if err := w.csv.Write(values); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return nil
}

// Rows returns the number of data records written.
func (w *Writer) Rows() int {
	return w.rows
}

// Flush writes buffered rows to the file.
func (w *Writer) Flush() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", w.path, err)
	}
	return nil
}

// Close flushes buffered rows and releases the file. Calling Close more
// than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	flushErr := w.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", w.path, closeErr)
	}
	return nil
}
