package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/svg2png/internal/history"
	"github.com/pdiddy/svg2png/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history [dir]",
	Short: "Show recent conversion runs",
	Long: `History lists recent batch runs recorded in the history database,
newest first, with the files that failed and their renderer exit codes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of runs to show")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := conversionConfig(args)
	if err != nil {
		return err
	}
	if cfg.HistoryPath == "" {
		return fmt.Errorf("history is disabled")
	}
	if _, err := os.Stat(cfg.HistoryPath); err != nil {
		fmt.Println("No runs recorded.")
		return nil
	}

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(os.Stdout, runs, jsonOutput)
}

func formatHistory(w io.Writer, runs []history.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-9s  %-7s  %-6s  %s\n",
		"Run", "Started", "Converted", "Skipped", "Failed", "Dir")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range runs {
		fmt.Fprintf(w, "%-5d  %-20s  %-9d  %-7d  %-6d  %s\n",
			r.ID, r.Started.Local().Format(time.DateTime), r.Converted, r.Skipped, r.Failed, r.Dir)
		for _, f := range r.Files {
			if f.Status != types.ConversionFailed {
				continue
			}
			fmt.Fprintf(w, "       failed %s (exit %d): %s\n", f.Name, f.ExitCode, f.Error)
		}
	}
	return nil
}
