package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Default returns the default engine configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			BoardSize:  4,
			WinTarget:  2048,
			AllowUndo:  true,
			Spawn4Prob: 0.1,
		},
		AI: AIConfig{
			Algorithm:    "expectimax",
			Depth:        3,
			Playouts:     60,
			PlayoutDepth: 40,
			SampleCap:    6,
		},
		Storage: StorageConfig{
			DBPath: "~/.merge2048/sessions.db",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultEngineYAML
}
