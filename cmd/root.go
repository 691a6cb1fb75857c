package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel         string
	logColorDisabled bool

	rootCmd = &cobra.Command{
		Use:   "loan-preview-client",
		Short: "Query historical loan balances from a blockchain node",
		PersistentPreRun: func(*cobra.Command, []string) {
			initLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logrus.InfoLevel.String(), "Log level")
	rootCmd.PersistentFlags().BoolVar(&logColorDisabled, "log-color-disabled", false, "Force to disable colorful logs")
}

func initLog() {
	formatter := logrus.TextFormatter{
		FullTimestamp: true,
	}

	if logColorDisabled {
		formatter.DisableColors = true
	} else {
		formatter.ForceColors = true
	}

	logrus.SetFormatter(&formatter)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.WithError(err).WithField("level", logLevel).Fatal("Failed to parse log level")
	}

	logrus.SetLevel(level)
}

// envString returns the value of the environment variable key, or defaultValue if not set.
func envString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return defaultValue
}

// envInt is like envString for integers. The value is parsed by parse, whose
// error is returned along with defaultValue if the value is malformed.
func envInt(key string, defaultValue int, parse func(string) (int, error)) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue, nil
	}

	n, err := parse(value)
	if err != nil {
		return defaultValue, errors.WithMessagef(err, "Malformed environment variable %v", key)
	}

	return n, nil
}

// Execute is the command line entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
