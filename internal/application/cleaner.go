// Package application wires one cleaning run together: guard-rail checks,
// scoped acquisition of the input and output files, and the engine.
package application

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/JonMunkholm/contactclean/internal/core"
	"github.com/JonMunkholm/contactclean/internal/csvio"
	"github.com/JonMunkholm/contactclean/internal/logging"
	"github.com/JonMunkholm/contactclean/internal/preflight"
)

// Default paths used when the command line omits them.
const (
	DefaultInputPath  = "input_file.csv"
	DefaultOutputPath = "output_file.csv"
)

// ResolvePaths picks input and output paths from positional arguments,
// falling back to the defaults. Extra arguments are ignored.
func ResolvePaths(args []string) (input, output string) {
	input, output = DefaultInputPath, DefaultOutputPath
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}
	return input, output
}

// Options configures a single run.
type Options struct {
	InputPath  string
	OutputPath string
	Output     csvio.WriterOptions

	// ProgressInterval logs progress every N input rows. 0 disables it.
	ProgressInterval int
}

// Result summarizes a run. It is filled as far as the run got, even on error.
type Result struct {
	RunID  string
	Input  string
	Output string
	Stats  core.Stats

	// RowsWritten counts data rows that reached the output file.
	RowsWritten int
	BytesRead   int64
	Duration    time.Duration
}

// Cleaner runs the contact cleaning pipeline against a filesystem.
type Cleaner struct {
	fs     afero.Fs
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger discards all output.
func NewCleaner(fs afero.Fs, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cleaner{fs: fs, logger: logger}
}

// Run cleans opts.InputPath into opts.OutputPath. Both files are released on
// every path; the output is flushed so a failed run leaves valid CSV up to
// the last record written.
func (c *Cleaner) Run(ctx context.Context, opts Options) (res Result, err error) {
	start := time.Now()
	res = Result{
		RunID:  core.GetRunIDFromContext(ctx),
		Input:  opts.InputPath,
		Output: opts.OutputPath,
	}
	logger := logging.WithRunID(ctx, c.logger).With("input", opts.InputPath, "output", opts.OutputPath)

	if err := preflight.Check(c.fs, opts.InputPath, opts.OutputPath); err != nil {
		return res, err
	}

	reader, err := csvio.OpenReader(c.fs, opts.InputPath)
	if err != nil {
		return res, err
	}
	defer reader.Close()

	writer, err := csvio.CreateWriter(c.fs, opts.OutputPath, reader.Header(), opts.Output)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := writer.WriteHeader(); err != nil {
		return res, err
	}
	logger.Info("cleaning started", "columns", len(reader.Header()))

	var src core.Source = reader
	if opts.ProgressInterval > 0 {
		src = &progressSource{Reader: reader, every: opts.ProgressInterval, logger: logger}
	}

	res.Stats, err = core.NewEngine(logger).Run(ctx, src, writer)
	res.RowsWritten = writer.Rows()
	res.BytesRead = reader.BytesRead()
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	logger.Info("cleaning finished",
		"rows_read", res.Stats.RowsRead,
		"rows_blank", res.Stats.RowsBlank,
		"duplicates", res.Stats.Duplicates,
		"rows_written", res.RowsWritten,
		"bytes_read", res.BytesRead,
		"duration", res.Duration,
	)
	return res, nil
}

// progressSource logs read progress every `every` records.
type progressSource struct {
	*csvio.Reader
	every  int
	rows   int
	logger *slog.Logger
}

func (p *progressSource) Next() (core.Record, error) {
	rec, err := p.Reader.Next()
	if err != nil {
		return rec, err
	}
	p.rows++
	if p.rows%p.every == 0 {
		p.logger.Info("progress",
			"rows", p.rows,
			"percent", p.Progress(),
			"bytes_read", p.BytesRead(),
		)
	}
	return rec, nil
}
