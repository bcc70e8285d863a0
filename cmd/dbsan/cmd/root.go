package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ontomirror/dbsan/config"
)

var (
	rootCmd = &cobra.Command{
		Use:          "dbsan",
		Short:        "dbsan",
		SilenceUsage: true,
		Long:         `Rewrites T-SQL/MySQL dump files into SQLite-executable SQL and imports them, one transaction per file.`,
	}

	configPath string
	verbose    bool
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to HCL config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return rootCmd.Execute()
}

// loadConfig resolves the effective configuration: defaults, overridden by
// the --config file when one is given.
func loadConfig() (*config.Config, error) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configPath)
}
