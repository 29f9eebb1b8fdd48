package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/engine"
	"github.com/vovakirdan/merge2048/internal/stats"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var (
	flagAlgorithm string
	flagGames     int
	flagRecord    string
	flagStrength  string
	flagShowBoard bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Let an AI play one or more games",
	Long: `Run complete AI-driven games and record the outcomes into the
session database.

Algorithms:
  greedy     - One-ply heuristic search, fastest
  expectimax - Bounded-depth search over moves and tile spawns
  mcts       - Randomized playouts per candidate move

Strength presets (adjust depth/playouts):
  fast, normal, strong

Examples:
  merge2048 play
  merge2048 play --algorithm mcts --games 5
  merge2048 play --algorithm expectimax --strength strong
  merge2048 play --record best.replay.json --show-board`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagAlgorithm, "algorithm", "", "AI algorithm: greedy, expectimax, mcts")
	playCmd.Flags().IntVar(&flagGames, "games", 1, "Number of games to play")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay artifact of the last game to this path")
	playCmd.Flags().StringVar(&flagStrength, "strength", "", "Strength preset: fast, normal, strong")
	playCmd.Flags().BoolVar(&flagShowBoard, "show-board", false, "Print the final board of each game")
}

func runPlay(cmd *cobra.Command, args []string) {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagAlgorithm != "" {
		cfg.AI.Algorithm = flagAlgorithm
	}
	if flagStrength != "" {
		config.ApplyStrengthPreset(&cfg.AI, config.StrengthPreset(flagStrength))
	}

	// Open session storage
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open session database", "error", err)
		// Continue without storage - games still run
		store = nil
	}

	var persist stats.Recorder
	if store != nil {
		persist = store
		defer store.Close()
	}

	eng, err := engine.New(cfg, persist, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating engine: %v\n", err)
		os.Exit(1)
	}

	if err := eng.EnableAI(cfg.AI.Algorithm); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < flagGames; i++ {
		recording := flagRecord != "" && i == flagGames-1
		if recording {
			if err := eng.StartRecording(); err != nil {
				logger.Warn("recording not started", "error", err)
				recording = false
			}
		}

		for {
			snap, err := eng.RequestAIMove()
			if err != nil {
				logger.Error("ai move failed", "error", err)
				os.Exit(1)
			}
			if snap.State.Terminal() {
				if flagShowBoard {
					fmt.Println(snap.Board)
				}
				fmt.Printf("Game %d/%d: score=%d moves=%d max_tile=%d state=%s\n",
					i+1, flagGames, snap.Score.Current, snap.Moves, snap.MaxTile, snap.State)
				break
			}
		}

		if recording {
			artifact, err := eng.StopRecording()
			if err != nil {
				logger.Warn("recording not finished", "error", err)
			} else if err := artifact.Save(flagRecord); err != nil {
				logger.Warn("replay not saved", "error", err)
			} else {
				logger.Info("replay saved", "path", flagRecord, "id", artifact.ID)
			}
		}

		if i < flagGames-1 {
			if _, err := eng.NewGame(); err != nil {
				logger.Error("restart failed", "error", err)
				os.Exit(1)
			}
		}
	}

	summary, err := eng.StatisticsSummary()
	if err == nil && summary.Sessions > 1 {
		fmt.Printf("\nPlayed %d games: avg score %.0f, best %d, win rate %.0f%%\n",
			summary.Sessions, summary.AvgScore, summary.BestScore, summary.WinRate*100)
	}
}
