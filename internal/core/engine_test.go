package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var contactHeader = Header{"Name", EmailColumn, "Company"}

func runRows(t *testing.T, h Header, rows ...[]string) ([][]string, Stats) {
	t.Helper()
	sink := &sliceSink{}
	stats, err := NewEngine(nil).Run(context.Background(), newSliceSource(h, rows...), sink)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return sink.Rows(), stats
}

func TestEngine_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want [][]string
	}{
		{
			name: "multiple emails split into rows",
			rows: [][]string{{"Alice", " a@x.com , b@x.com ", "Acme"}},
			want: [][]string{
				{"Alice", "a@x.com", "Acme"},
				{"Alice", "b@x.com", "Acme"},
			},
		},
		{
			name: "empty email field produces nothing",
			rows: [][]string{{"Bob", "", "Acme"}},
			want: [][]string{},
		},
		{
			name: "duplicate across rows keeps first",
			rows: [][]string{
				{"Alice", "a@x.com", "Acme"},
				{"Alicia", "a@x.com", "Other"},
			},
			want: [][]string{{"Alice", "a@x.com", "Acme"}},
		},
		{
			name: "empty middle candidate is emitted once",
			rows: [][]string{
				{"Alice", "a@x.com,,b@x.com", "Acme"},
				{"Bob", "c@x.com, ,", "Beta"},
			},
			want: [][]string{
				{"Alice", "a@x.com", "Acme"},
				{"Alice", "", "Acme"},
				{"Alice", "b@x.com", "Acme"},
				{"Bob", "c@x.com", "Beta"},
			},
		},
		{
			name: "whitespace-only field is not skipped before split",
			rows: [][]string{{"Carol", "   ", "Acme"}},
			want: [][]string{{"Carol", "", "Acme"}},
		},
		{
			name: "other fields are trimmed",
			rows: [][]string{{"  Dave\t", "d@x.com", " Initech "}},
			want: [][]string{{"Dave", "d@x.com", "Initech"}},
		},
		{
			name: "addresses are case sensitive",
			rows: [][]string{{"Eve", "e@x.com,E@x.com", ""}},
			want: [][]string{
				{"Eve", "e@x.com", ""},
				{"Eve", "E@x.com", ""},
			},
		},
		{
			name: "repeat within one row",
			rows: [][]string{{"Finn", "f@x.com, f@x.com ,g@x.com", "Acme"}},
			want: [][]string{
				{"Finn", "f@x.com", "Acme"},
				{"Finn", "g@x.com", "Acme"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := runRows(t, contactHeader, tt.rows...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_Properties(t *testing.T) {
	rows := [][]string{
		{"A", "one@x.com, two@x.com", " a "},
		{"B", "", "b"},
		{"C", "two@x.com,three@x.com,,", "c"},
		{"D", " one@x.com ", "d"},
		{"E", "four@x.com , ,five@x.com", " e"},
		{"F", ",", "f"},
	}
	got, stats := runRows(t, contactHeader, rows...)

	emailIdx := contactHeader.Index(EmailColumn)
	seen := make(map[string]bool)
	var order []string
	for _, row := range got {
		email := row[emailIdx]
		if strings.Contains(email, ",") {
			t.Errorf("email %q contains a comma", email)
		}
		if seen[email] {
			t.Errorf("email %q emitted twice", email)
		}
		seen[email] = true
		order = append(order, email)

		for _, v := range row {
			if strings.TrimSpace(v) != v {
				t.Errorf("value %q is not trimmed", v)
			}
		}
	}

	wantOrder := []string{"one@x.com", "two@x.com", "three@x.com", "", "four@x.com", "five@x.com"}
	if diff := cmp.Diff(wantOrder, order); diff != "" {
		t.Errorf("first-seen order mismatch (-want +got):\n%s", diff)
	}

	wantStats := Stats{RowsRead: 6, RowsBlank: 1, Candidates: 12, Duplicates: 6, RowsEmitted: 6}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_MissingEmailColumn(t *testing.T) {
	h := Header{"Name", "email"}
	src := newSliceSource(h, []string{"Alice", "a@x.com"})

	_, err := NewEngine(nil).Run(context.Background(), src, &sliceSink{})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("Run() error = %v, want ErrMissingColumn", err)
	}

	var mce *MissingColumnError
	if !errors.As(err, &mce) {
		t.Fatalf("expected *MissingColumnError, got %T", err)
	}
	if mce.Line != 2 {
		t.Errorf("Line = %d, want 2", mce.Line)
	}
}

func TestEngine_MissingEmailColumnWithoutRows(t *testing.T) {
	src := newSliceSource(Header{"Name"})
	stats, err := NewEngine(nil).Run(context.Background(), src, &sliceSink{})
	if err != nil {
		t.Fatalf("header-only input should succeed, got %v", err)
	}
	if stats.RowsRead != 0 {
		t.Errorf("RowsRead = %d, want 0", stats.RowsRead)
	}
}

func TestEngine_ShortRowIsPadded(t *testing.T) {
	got, _ := runRows(t, contactHeader, []string{"Gina", "g@x.com"})
	want := [][]string{{"Gina", "g@x.com", ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_DoesNotMutateSource(t *testing.T) {
	row := []string{" Hal ", "h@x.com, i@x.com", " Acme "}
	sink := &sliceSink{}
	e := NewEngine(nil)
	if err := e.Process(newRecord(contactHeader, row...), sink.WriteRecord); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if diff := cmp.Diff([]string{" Hal ", "h@x.com, i@x.com", " Acme "}, row); diff != "" {
		t.Errorf("source row mutated (-want +got):\n%s", diff)
	}

	// Emitted records must not share backing arrays.
	sink.Records[0].Values[0] = "changed"
	if sink.Records[1].Values[0] != "Hal" {
		t.Errorf("records share values: %q", sink.Records[1].Values[0])
	}
}

func TestEngine_SeenSet(t *testing.T) {
	e := NewEngine(nil)
	if hasSeen(e, "a@x.com") {
		t.Fatal("fresh engine should not have seen anything")
	}
	if err := e.Process(newRecord(contactHeader, "A", "a@x.com", ""), func(Record) error { return nil }); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !hasSeen(e, "a@x.com") {
		t.Error("a@x.com should be seen")
	}

	// A second engine starts with its own set.
	if hasSeen(NewEngine(nil), "a@x.com") {
		t.Error("engines must not share state")
	}
}

func TestEngine_EmitErrorStopsRun(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0
	e := NewEngine(nil)
	err := e.Process(newRecord(contactHeader, "A", "a@x.com,b@x.com", ""), func(Record) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Process() error = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("emit called %d times, want 1", calls)
	}
	if e.stats.RowsEmitted != 0 {
		t.Errorf("RowsEmitted = %d, want 0", e.stats.RowsEmitted)
	}
}

type failingSource struct {
	err error
}

func (s failingSource) Header() Header         { return contactHeader }
func (s failingSource) Next() (Record, error) { return Record{}, s.err }

func TestEngine_SourceErrorPropagates(t *testing.T) {
	boom := fmt.Errorf("read: %w", ErrInvalidCSV)
	_, err := NewEngine(nil).Run(context.Background(), failingSource{err: boom}, &sliceSink{})
	if !errors.Is(err, ErrInvalidCSV) {
		t.Fatalf("Run() error = %v, want ErrInvalidCSV", err)
	}
}

func TestEngine_RunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &sliceSink{}
	_, err := NewEngine(nil).Run(ctx, newSliceSource(contactHeader, []string{"A", "a@x.com", ""}), sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(sink.Records) != 0 {
		t.Errorf("expected no records after cancellation, got %d", len(sink.Records))
	}
}

func TestEngine_RunChecksContextPeriodically(t *testing.T) {
	old := ContextCheckInterval
	ContextCheckInterval = 2
	defer func() { ContextCheckInterval = old }()

	ctx, cancel := context.WithCancel(context.Background())
	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{"N", fmt.Sprintf("user%d@x.com", i), ""}
	}

	sink := &cancelAfterSink{cancel: cancel, after: 3}
	stats, err := NewEngine(nil).Run(ctx, newSliceSource(contactHeader, rows...), sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	// Cancelled after row 3, noticed at the next check (row index 4).
	if stats.RowsRead != 4 {
		t.Errorf("RowsRead = %d, want 4", stats.RowsRead)
	}
}

type cancelAfterSink struct {
	sliceSink
	cancel context.CancelFunc
	after  int
}

func (s *cancelAfterSink) WriteRecord(r Record) error {
	_ = s.sliceSink.WriteRecord(r)
	if len(s.Records) == s.after {
		s.cancel()
	}
	return nil
}
