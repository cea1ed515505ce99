package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// flagEnv maps the flags that can be set from the environment to their
// variables.
var flagEnv = map[string]string{
	"csv":             "INTERSIM_CSV",
	"sqlite":          "INTERSIM_SQLITE",
	"port":            "INTERSIM_PORT",
	"deadlock-winner": "INTERSIM_DEADLOCK_WINNER",
}

// loadConfig loads the env file, if it exists, and sets the flags that are
// not given on the command line from the environment. Variables already in
// the environment take precedence over the env file.
func loadConfig(cmd *cobra.Command, path string) error {
	if path != "" {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}

	for flag, env := range flagEnv {
		if cmd.Flags().Lookup(flag) == nil || cmd.Flags().Changed(flag) {
			continue
		}

		value, ok := os.LookupEnv(env)
		if !ok {
			continue
		}

		err := cmd.Flags().Set(flag, value)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
	}

	return nil
}
