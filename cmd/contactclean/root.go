package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/contactclean/internal/application"
	"github.com/JonMunkholm/contactclean/internal/config"
	"github.com/JonMunkholm/contactclean/internal/core"
	"github.com/JonMunkholm/contactclean/internal/csvio"
	"github.com/JonMunkholm/contactclean/internal/logging"
)

const longHelp = `Expand a contact export so that every email address gets its own row.

The input must have an "Email" column. Each value in it is split on commas;
every address not seen before in the file produces one copy of the row with
Email set to that address. Rows with an empty Email are dropped and all
fields are trimmed of surrounding whitespace.

Paths default to input_file.csv and output_file.csv. The output file must
not exist yet; it is never overwritten.`

type rootFlags struct {
	logLevel         string
	logFormat        string
	bom              bool
	crlf             bool
	progressInterval int
}

func newRootCmd(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:           "contactclean [input.csv] [output.csv]",
		Short:         "Split multi-address Email cells into one row per unique address",
		Long:          longHelp,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Flags win over the environment, so validate only the merged result.
			applyFlags(cmd, cfg, flags)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}

			logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, stderr)
			ctx := core.ContextWithRunID(cmd.Context(), uuid.NewString())
			runLogger := logging.FromContext(ctx)
			runLogger.Debug("configuration loaded", "config", cfg.String())

			if len(args) > 2 {
				runLogger.Warn("ignoring extra arguments", "args", args[2:])
			}
			input, output := application.ResolvePaths(args)

			res, err := application.NewCleaner(fs, logger).Run(ctx, application.Options{
				InputPath:  input,
				OutputPath: output,
				Output: csvio.WriterOptions{
					CRLF: cfg.Output.CRLF,
					BOM:  cfg.Output.BOM,
				},
				ProgressInterval: cfg.Progress.Interval,
			})
			if err != nil {
				logging.WithFields(ctx, "input", input, "output", output).
					Error("cleaning failed", "error", err, "rows_read", res.Stats.RowsRead)
				return err
			}

			printSummary(stdout, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "text", "log format: text, json")
	f.BoolVar(&flags.bom, "bom", false, "write a UTF-8 byte order mark at the start of the output")
	f.BoolVar(&flags.crlf, "crlf", true, "terminate output lines with CRLF instead of LF")
	f.IntVar(&flags.progressInterval, "progress-interval", 10000, "log progress every N rows (0 disables)")

	return cmd
}

// applyFlags overrides environment configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags rootFlags) {
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if f.Changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if f.Changed("bom") {
		cfg.Output.BOM = flags.bom
	}
	if f.Changed("crlf") {
		cfg.Output.CRLF = flags.crlf
	}
	if f.Changed("progress-interval") {
		cfg.Progress.Interval = flags.progressInterval
	}
}

func printSummary(w io.Writer, res application.Result) {
	s := res.Stats
	fmt.Fprintf(w, "Wrote %d rows to %s\n", res.RowsWritten, res.Output)
	fmt.Fprintf(w, "  rows read:          %d\n", s.RowsRead)
	fmt.Fprintf(w, "  blank email rows:   %d\n", s.RowsBlank)
	fmt.Fprintf(w, "  duplicate emails:   %d\n", s.Duplicates)
	fmt.Fprintf(w, "  time:               %s\n", res.Duration.Round(time.Millisecond))
}
