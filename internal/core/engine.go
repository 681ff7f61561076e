package core

// engine.go implements the row expansion and deduplication policy.
//
// For each record, in input order:
//  1. If the raw Email value is "" the record is skipped. The check runs
//     before trimming, so a whitespace-only value is not skipped here.
//  2. The raw value is split on ',' and every part is trimmed. Empty parts
//     are kept and deduplicated like any other address.
//  3. Every candidate not seen before is recorded, the row is cloned, its
//     Email field set to the candidate, all fields trimmed, and the clone
//     emitted.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ContextCheckInterval is how often (in rows) Run checks for cancellation.
var ContextCheckInterval = 100

// Engine applies the split/trim/dedup policy. The seen-address set lives on
// the engine, so one Engine corresponds to one cleaning run.
type Engine struct {
	seen   map[string]struct{}
	stats  Stats
	logger *slog.Logger
}

// NewEngine creates an engine with an empty seen-address set.
// A nil logger discards all output.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		seen:   make(map[string]struct{}),
		logger: logger,
	}
}

// Process expands one record and calls emit for each new address, in the
// order the addresses appear in the Email field.
func (e *Engine) Process(rec Record, emit func(Record) error) error {
	idx := rec.Header.Index(EmailColumn)
	if idx < 0 {
		return &MissingColumnError{Column: EmailColumn, Line: rec.Line}
	}
	e.stats.RowsRead++

	raw := ""
	if idx < len(rec.Values) {
		raw = rec.Values[idx]
	}
	if raw == "" {
		e.stats.RowsBlank++
		e.logger.Debug("skipping row with empty email", "line", rec.Line)
		return nil
	}

	for _, part := range strings.Split(raw, ",") {
		email := strings.TrimSpace(part)
		e.stats.Candidates++

		if _, dup := e.seen[email]; dup {
			e.stats.Duplicates++
			e.logger.Debug("skipping duplicate email", "line", rec.Line, "email", email)
			continue
		}
		e.seen[email] = struct{}{}

		out := rec.Clone()
		out.Values[idx] = email
		for i, v := range out.Values {
			out.Values[i] = strings.TrimSpace(v)
		}

		e.logger.Debug("writing record", "line", rec.Line, "record", out)
		if err := emit(out); err != nil {
			return fmt.Errorf("emit line %d: %w", rec.Line, err)
		}
		e.stats.RowsEmitted++
	}

	return nil
}

// Run pulls records from src until io.EOF and pushes the expanded records
// to dst. It returns the stats accumulated so far even on error.
func (e *Engine) Run(ctx context.Context, src Source, dst Sink) (Stats, error) {
	for i := 0; ; i++ {
		// Check context periodically to allow cancellation
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return e.stats, fmt.Errorf("cleaning cancelled after %d rows: %w", e.stats.RowsRead, err)
			}
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return e.stats, nil
		}
		if err != nil {
			return e.stats, err
		}

		if err := e.Process(rec, dst.WriteRecord); err != nil {
			return e.stats, err
		}
	}
}
