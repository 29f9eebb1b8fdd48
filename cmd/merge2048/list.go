package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/ai"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available AI algorithms",
	Long:  `Shows all move-selection algorithms registered in the engine.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	names := ai.Names()

	if len(names) == 0 {
		fmt.Println("No algorithms available.")
		return
	}

	fmt.Println("Available algorithms:")
	fmt.Println()
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Run 'merge2048 play --algorithm <name>' to use one.")
}
