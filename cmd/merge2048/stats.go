package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/stats"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var flagTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate session statistics",
	Long: `Display the aggregate summary over all recorded sessions, plus the
top-scoring sessions.

Examples:
  merge2048 stats
  merge2048 stats --top 5`,
	Args: cobra.NoArgs,
	Run:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagTop, "top", 10, "Number of top sessions to show")
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening session database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	history, err := store.AllSessions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading sessions: %v\n", err)
		os.Exit(1)
	}

	summary := stats.Summarize(history)
	if summary.Sessions == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'merge2048 play' to record the first one.")
		return
	}

	fmt.Println("Session statistics")
	fmt.Println()
	fmt.Printf("  Sessions:      %d\n", summary.Sessions)
	fmt.Printf("  Average score: %.1f\n", summary.AvgScore)
	fmt.Printf("  Best score:    %d\n", summary.BestScore)
	fmt.Printf("  Win rate:      %.1f%%\n", summary.WinRate*100)
	fmt.Printf("  Avg duration:  %s\n", summary.AvgDuration.Round(time.Second))
	fmt.Printf("  Max tile:      %d\n", summary.MaxTile)

	top, err := store.TopSessions(flagTop)
	if err != nil || len(top) == 0 {
		return
	}

	fmt.Println()
	fmt.Printf("  %-4s  %-10s  %-8s  %-8s  %s\n", "Rank", "Score", "Moves", "MaxTile", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-8s  %s\n", "----", "-----", "-----", "-------", "----")
	for i, sess := range top {
		fmt.Printf("  %-4d  %-10d  %-8d  %-8d  %s\n",
			i+1, sess.Score, sess.Moves, sess.MaxTile, sess.EndedAt.Format("2006-01-02 15:04"))
	}
}
