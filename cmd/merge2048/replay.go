package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Verify or inspect replay artifacts",
}

var replayVerifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Check that a replay artifact reproduces its recorded summary",
	Long: `Replays the recorded move sequence against the recorded initial board
and checks that the final board, score, and max tile match the artifact's
summary.

Examples:
  merge2048 replay verify best.replay.json`,
	Args: cobra.ExactArgs(1),
	Run:  runReplayVerify,
}

var replayShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a replay artifact's configuration and summary",
	Args:  cobra.ExactArgs(1),
	Run:   runReplayShow,
}

func init() {
	replayCmd.AddCommand(replayVerifyCmd)
	replayCmd.AddCommand(replayShowCmd)
}

func runReplayVerify(cmd *cobra.Command, args []string) {
	artifact, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := replay.Verify(artifact); err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: %d moves reproduce score %d, max tile %d\n",
		artifact.Summary.Moves, artifact.Summary.Score, artifact.Summary.MaxTile)
}

func runReplayShow(cmd *cobra.Command, args []string) {
	artifact, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Replay %s\n", artifact.ID)
	fmt.Printf("  Recorded:  %s\n", artifact.RecordedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Board:     %dx%d, win target %d\n",
		artifact.Config.BoardSize, artifact.Config.BoardSize, artifact.Config.WinTarget)
	fmt.Printf("  Moves:     %d\n", artifact.Summary.Moves)
	fmt.Printf("  Score:     %d\n", artifact.Summary.Score)
	fmt.Printf("  Max tile:  %d\n", artifact.Summary.MaxTile)
	fmt.Printf("  Won:       %v\n", artifact.Summary.Won)
}
