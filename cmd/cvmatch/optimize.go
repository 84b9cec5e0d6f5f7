package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Suggest targeted CV improvements for a job description",
	RunE:  runOptimize,
}

func init() {
	addInputFlags(optimizeCmd)
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(_ *cobra.Command, _ []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	req, err := loadRequest(ctx)
	if err != nil {
		return err
	}

	coordinator, ws, cleanup, err := newCoordinator()
	if err != nil {
		return err
	}
	defer cleanup()

	improvements, err := coordinator.OptimizeCV(ctx, ws, req)
	if err != nil {
		return err
	}

	if len(improvements.Improvements) == 0 {
		fmt.Println("No improvements suggested.")
		return nil
	}

	for _, improvement := range improvements.Improvements {
		fmt.Printf("[%s] %s\n", improvement.Impact, improvement.Location)
		fmt.Printf("  before: %s\n", improvement.Original)
		fmt.Printf("  after:  %s\n", improvement.Improved)
		if len(improvement.MatchedRequirements) > 0 {
			fmt.Printf("  matches: %v\n", improvement.MatchedRequirements)
		}
		fmt.Println()
	}
	return nil
}
