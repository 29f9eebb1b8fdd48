// merge2048 is a 2048-style puzzle engine with AI-assisted play, replay
// recording, and session statistics.
//
// Usage:
//
//	merge2048 play                 - Let an AI play one or more games
//	merge2048 replay verify <file> - Check a replay artifact's determinism
//	merge2048 replay show <file>   - Print a replay artifact's summary
//	merge2048 stats                - Show aggregate session statistics
//	merge2048 list                 - List available AI algorithms
//
// Global flags:
//
//	--config <path> - Path to a custom engine config YAML
//	--db <path>     - Session database path (default: ~/.merge2048/sessions.db)
//	--seed <value>  - RNG seed for reproducible games
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/config"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagSeed   int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "merge2048",
	Short: "2048 puzzle engine with AI play, replays, and statistics",
	Long: `merge2048 is a 2048-style puzzle engine. It applies slide-and-merge
moves, lets an AI play with one of three algorithms, records sessions into
replay artifacts, and aggregates statistics across games.

Available commands:
  play     - Let an AI play one or more games
  replay   - Verify or inspect replay artifacts
  stats    - Show aggregate session statistics
  list     - List available AI algorithms

Examples:
  merge2048 play --algorithm mcts --games 5
  merge2048 play --algorithm expectimax --record out.replay.json
  merge2048 replay verify out.replay.json
  merge2048 stats`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to session database (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listCmd)
}

// loadConfig resolves the engine config and applies global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	return cfg, nil
}

// newLogger builds the CLI logger.
func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "merge2048",
	})
}
