package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ontomirror/dbsan/internal/sanitize"
)

var sanitizeOutput string

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [file]",
	Short: "Rewrite one SQL dump into SQLite dialect (stdin/stdout by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if len(args) == 1 {
			raw, err = os.ReadFile(args[0])
		} else {
			raw, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		out := sanitize.Sanitize(string(raw))

		if sanitizeOutput == "" {
			_, err = io.WriteString(os.Stdout, out)
			return err
		}
		return os.WriteFile(sanitizeOutput, []byte(out), 0o644)
	},
}

func init() {
	sanitizeCmd.Flags().StringVarP(&sanitizeOutput, "output", "o", "", "write sanitized SQL to this file instead of stdout")
	rootCmd.AddCommand(sanitizeCmd)
}
