package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ontomirror/dbsan/internal/importer"
)

var (
	importDBPath  string
	importMode    string
	importTimeout time.Duration
	importNoSort  bool
)

var importCmd = &cobra.Command{
	Use:   "import --db <path> <file>...",
	Short: "Sanitize and import SQL dump files into one SQLite database",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		mode := importer.Mode(importMode)
		if importMode == "" {
			mode = importer.Mode(cfg.DefaultMode)
		}
		switch mode {
		case importer.ModeOverwrite, importer.ModeAppend:
		default:
			return fmt.Errorf("unknown mode %q (want overwrite or append)", mode)
		}

		files := append([]string(nil), args...)
		if !importNoSort {
			sortSchemaFirst(files)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		job := &importer.Job{
			Files:    files,
			DBPath:   importDBPath,
			Mode:     mode,
			Timeout:  importTimeout,
			DebugDir: cfg.DebugDir,
			Logger:   logrus.StandardLogger(),
			Log:      func(msg string) { fmt.Println(msg) },
		}
		summary, err := job.Run(ctx)
		if err != nil {
			return err
		}
		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
		}
		return nil
	},
}

// sortSchemaFirst orders *_schema.sql files ahead of everything else (and
// otherwise keeps lexical order), so tables exist before their data loads.
func sortSchemaFirst(files []string) {
	rank := func(f string) int {
		if strings.HasSuffix(strings.ToLower(f), "_schema.sql") {
			return 0
		}
		return 1
	}
	sort.SliceStable(files, func(i, j int) bool {
		ri, rj := rank(files[i]), rank(files[j])
		if ri != rj {
			return ri < rj
		}
		return files[i] < files[j]
	})
}

func init() {
	importCmd.Flags().StringVar(&importDBPath, "db", "", "output SQLite database path (required)")
	importCmd.Flags().StringVar(&importMode, "mode", "", "overwrite or append (default from config)")
	importCmd.Flags().DurationVar(&importTimeout, "timeout", 0, "per-file watchdog timeout (0 = none)")
	importCmd.Flags().BoolVar(&importNoSort, "no-sort", false, "process files exactly in the order given")
	importCmd.MarkFlagRequired("db")
	rootCmd.AddCommand(importCmd)
}
