package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/intersim/arbitration"
	"github.com/sarchlab/intersim/input"
	"github.com/sarchlab/intersim/report"
	"github.com/sarchlab/intersim/simulation"
	"github.com/sarchlab/intersim/tracing"
	"github.com/sarchlab/intersim/traffic"
)

type runOptions struct {
	echo           bool
	csv            string
	sqlite         string
	logEvents      bool
	deadlockWinner string
	quiet          bool
}

var runOpts runOptions

type traceFile interface {
	Path() string
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Simulate the vehicles in a data file.",
	Long: "`run <file>` services every vehicle in the data file, prints " +
		"when each vehicle enters and leaves the intersection, and " +
		"summarizes the wait times.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := simulate(args[0], runOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runOpts.echo, "echo", false,
		"Print the data file and the sorted arrivals first.")
	runCmd.Flags().StringVar(&runOpts.csv, "csv", "",
		"Also write the services to this CSV file.")
	runCmd.Flags().StringVar(&runOpts.sqlite, "sqlite", "",
		"Also write the services to this SQLite database.")
	runCmd.Flags().BoolVar(&runOpts.logEvents, "log-events", false,
		"Log every engine event to stderr.")
	runCmd.Flags().StringVar(&runOpts.deadlockWinner, "deadlock-winner", "N",
		"Direction that goes first when all four arrive together.")
	runCmd.Flags().BoolVar(&runOpts.quiet, "quiet", false,
		"Only print the summary.")
}

func policyFor(deadlockWinner string) (arbitration.Policy, error) {
	if len(deadlockWinner) != 1 {
		return arbitration.Policy{}, fmt.Errorf("deadlock winner: %w: %s",
			traffic.ErrUnknownDirection, deadlockWinner)
	}

	d, err := traffic.ParseDirection(deadlockWinner[0])
	if err != nil {
		return arbitration.Policy{}, fmt.Errorf("deadlock winner: %w", err)
	}

	return arbitration.DefaultPolicy().WithDeadlockWinner(d), nil
}

// simulate runs the data file and prints the results to out. Bad input and
// notices go to errOut.
func simulate(
	path string,
	opts runOptions,
	out, errOut io.Writer,
) (*simulation.Result, error) {
	policy, err := policyFor(opts.deadlockWinner)
	if err != nil {
		return nil, err
	}

	arrivals, err := input.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if opts.echo {
		fmt.Fprintln(out, "Data File Information")
		if err := report.WriteArrivals(out, arrivals); err != nil {
			return nil, err
		}
	}

	builder := simulation.MakeBuilder().
		WithPolicy(policy).
		WithLogger(log.New(errOut, "", 0))

	// With --echo the sorted list goes before the trace, and it is only
	// known once the arrivals are queued.
	var (
		trace    io.Writer = out
		buffered *bytes.Buffer
	)
	if opts.echo {
		buffered = new(bytes.Buffer)
		trace = buffered
	}

	if !opts.quiet {
		builder = builder.WithTraceWriter(tracing.NewConsoleTraceWriter(trace))
	}

	if opts.logEvents {
		builder = builder.WithEventLogging(log.New(errOut, "", 0))
	}

	var files []traceFile

	if opts.csv != "" {
		w := tracing.NewCSVTraceWriter(strings.TrimSuffix(opts.csv, ".csv"))
		defer w.Close()
		builder = builder.WithTraceWriter(w)
		files = append(files, w)
	}

	if opts.sqlite != "" {
		w := tracing.NewSQLiteTraceWriter(
			strings.TrimSuffix(opts.sqlite, ".sqlite3"))
		defer w.Close()
		builder = builder.WithTraceWriter(w)
		files = append(files, w)
	}

	result, err := builder.Build().Run(arrivals)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		fmt.Fprintf(errOut, "Trace is collected in %s\n", f.Path())
	}

	if opts.echo {
		fmt.Fprintln(out, "Sorted List")
		if err := report.WriteArrivals(out, result.Arrivals); err != nil {
			return nil, err
		}

		if _, err := io.Copy(out, buffered); err != nil {
			return nil, err
		}
	}

	return result, report.WriteSummary(out, result.Statistics)
}
