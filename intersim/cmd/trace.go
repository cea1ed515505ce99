package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/intersim/traffic"
	"github.com/sarchlab/intersim/tracing"
)

type traceOptions struct {
	direction string
	limit     int
	offset    int
}

var traceOpts traceOptions

var traceCmd = &cobra.Command{
	Use:   "trace <db>",
	Short: "Print the services stored in a SQLite trace.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printTrace(cmd.Context(), args[0], traceOpts,
			cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().StringVar(&traceOpts.direction, "direction", "",
		"Only print the services of one direction (N, E, S, or W).")
	traceCmd.Flags().IntVar(&traceOpts.limit, "limit", 0,
		"Maximum number of services to print. 0 prints all.")
	traceCmd.Flags().IntVar(&traceOpts.offset, "offset", 0,
		"Number of services to skip.")
}

func printTrace(
	ctx context.Context,
	path string,
	opts traceOptions,
	out, errOut io.Writer,
) error {
	params := tracing.QueryParams{
		Limit:  opts.limit,
		Offset: opts.offset,
	}

	if opts.limit < 0 || opts.offset < 0 {
		return fmt.Errorf("limit and offset cannot be negative")
	}

	if opts.direction != "" {
		if len(opts.direction) != 1 {
			return fmt.Errorf("%w: %s",
				traffic.ErrUnknownDirection, opts.direction)
		}

		d, err := traffic.ParseDirection(opts.direction[0])
		if err != nil {
			return err
		}
		params.Direction = d
	}

	reader, err := tracing.NewSQLiteTraceReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	services, total, err := reader.Services(ctx, params)
	if err != nil {
		return err
	}

	w := tracing.NewConsoleTraceWriter(out)
	for _, svc := range services {
		w.Write(svc)
	}

	fmt.Fprintf(errOut, "%d of %d services\n", len(services), total)

	return nil
}
