// Package config provides YAML-based configuration loading and AI strength
// presets for the puzzle engine.
package config

// Config contains all configuration for the engine.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	AI      AIConfig      `yaml:"ai"`
	Storage StorageConfig `yaml:"storage"`
}

// GameConfig defines the rules of a session.
type GameConfig struct {
	BoardSize  int     `yaml:"board_size"`
	WinTarget  int     `yaml:"win_target"`
	AllowUndo  bool    `yaml:"allow_undo"`
	Spawn4Prob float64 `yaml:"spawn4_prob"`
	Seed       int64   `yaml:"seed"`
}

// AIConfig defines the move-selection parameters.
type AIConfig struct {
	Algorithm    string `yaml:"algorithm"`     // greedy, expectimax, or mcts
	Depth        int    `yaml:"depth"`         // expectimax search depth
	Playouts     int    `yaml:"playouts"`      // mcts playouts per candidate
	PlayoutDepth int    `yaml:"playout_depth"` // mcts playout length cap
	SampleCap    int    `yaml:"sample_cap"`    // expectimax spawn sampling cap
}

// StorageConfig defines where session history is persisted.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// StrengthPreset represents a named AI strength level.
type StrengthPreset string

const (
	StrengthFast   StrengthPreset = "fast"
	StrengthNormal StrengthPreset = "normal"
	StrengthStrong StrengthPreset = "strong"
)

// ApplyStrengthPreset adjusts the AI parameters for a named preset.
// Unknown presets leave the config untouched.
func ApplyStrengthPreset(cfg *AIConfig, preset StrengthPreset) {
	switch preset {
	case StrengthFast:
		cfg.Depth = 2
		cfg.Playouts = 30
		cfg.PlayoutDepth = 20
	case StrengthNormal:
		cfg.Depth = 3
		cfg.Playouts = 60
		cfg.PlayoutDepth = 40
	case StrengthStrong:
		cfg.Depth = 4
		cfg.Playouts = 150
		cfg.PlayoutDepth = 80
	}
}
