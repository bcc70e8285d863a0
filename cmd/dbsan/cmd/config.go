package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ontomirror/dbsan/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the current (or default) configuration as an HCL file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.Export(args[0], cfg); err != nil {
			return err
		}
		fmt.Println("wrote", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configExportCmd)
	rootCmd.AddCommand(configCmd)
}
