package core

import "io"

func newRecord(h Header, values ...string) Record {
	return Record{Header: h, Values: values}
}

func hasSeen(e *Engine, email string) bool {
	_, ok := e.seen[email]
	return ok
}

// sliceSource yields pre-built rows in order.
type sliceSource struct {
	header Header
	rows   [][]string
	pos    int
}

func newSliceSource(h Header, rows ...[]string) *sliceSource {
	return &sliceSource{header: h, rows: rows}
}

func (s *sliceSource) Header() Header { return s.header }

func (s *sliceSource) Next() (Record, error) {
	if s.pos >= len(s.rows) {
		return Record{}, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	// Line numbers count the header as line 1.
	return Record{Header: s.header, Values: row, Line: s.pos + 1}, nil
}

// sliceSink collects emitted records in memory.
type sliceSink struct {
	Records []Record
}

func (s *sliceSink) WriteRecord(r Record) error {
	s.Records = append(s.Records, r)
	return nil
}

func (s *sliceSink) Rows() [][]string {
	out := make([][]string, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Values
	}
	return out
}
