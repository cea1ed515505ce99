// Package cmd provides the command-line interface of intersim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "intersim",
	Short: "intersim simulates the traffic through a four-way intersection.",
	Long: `intersim reads the vehicles arriving at a four-way intersection ` +
		`and decides when each of them crosses, following the right-of-way ` +
		`rules. It reports the wait time of every direction.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd, envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env",
		"File to load environment defaults from.")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
