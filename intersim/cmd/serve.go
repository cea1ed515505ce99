package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/intersim/monitoring"
)

var (
	servePort           int
	serveOpen           bool
	serveDeadlockWinner string
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Simulate a data file and serve the results over HTTP.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions{
			deadlockWinner: serveDeadlockWinner,
			quiet:          true,
		}

		result, err := simulate(args[0], opts, io.Discard, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		m := monitoring.NewMonitor(result).WithPortNumber(servePort)
		url, err := m.StartServer()
		if err != nil {
			return err
		}

		if serveOpen {
			if err := browser.OpenURL(url); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "cannot open browser: %v\n", err)
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second)
		defer cancel()

		return m.StopServer(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"Port of the server. 0 picks a random port.")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false,
		"Open the result page in the browser.")
	serveCmd.Flags().StringVar(&serveDeadlockWinner, "deadlock-winner", "N",
		"Direction that goes first when all four arrive together.")
}
