package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/synqronlabs/mailcheck/batch"
)

// Output formats of the bulk command.
const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

func bulkCmd(opts *options) *cobra.Command {
	var (
		column  string
		output  string
		format  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "bulk <file>",
		Short: "Verify every address in a CSV column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatMsgpack {
				return fmt.Errorf("unknown format %q (use %s or %s)", format, formatJSON, formatMsgpack)
			}

			cfg, logger, err := opts.prepare(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				if workers <= 0 {
					return errors.New("--workers must be positive")
				}
				cfg.Batch.Workers = workers
			}

			path := args[0]
			addrs, err := batch.ReadFile(path, column)
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file not found: %s", path)
			}
			if err != nil {
				return err
			}

			runner := batch.NewRunner(opts.verifier(cfg, logger), batch.Config{
				Workers: cfg.Batch.Workers,
				Logger:  logger,
			})
			report, runErr := runner.Run(cmd.Context(), addrs)

			// A cancelled run still writes the verdicts it completed.
			if err := writeReport(cmd, report, format, output, logger); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&column, "column", batch.DefaultColumn, "CSV column holding the addresses")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write results to this file instead of stdout")
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or msgpack")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent verifications (default from config, 16)")
	return cmd
}

func writeReport(cmd *cobra.Command, report batch.Report, format, output string, logger *slog.Logger) error {
	if output == "" {
		return encodeReport(cmd.OutOrStdout(), report, format)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := encodeReport(f, report, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Debug("results written", slog.String("path", output), slog.String("format", format))
	fmt.Fprintf(cmd.OutOrStdout(), "Results saved to %s\n", output)
	return nil
}

func encodeReport(w io.Writer, report batch.Report, format string) error {
	if format == formatMsgpack {
		return report.WriteMsg(w)
	}
	return printJSON(w, report)
}
