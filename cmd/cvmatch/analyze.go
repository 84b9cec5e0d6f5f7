package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a CV against a job description",
	Long:  "Run the full analysis: a suitability score with justification, actionable improvement steps, and targeted CV improvements.",
	RunE:  runAnalyze,
}

func init() {
	addInputFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
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

	report, err := coordinator.Analyze(ctx, ws, req)
	if err != nil {
		return err
	}

	fmt.Printf("Suitability score: %d/100\n\n", report.Analysis.Score)
	fmt.Println(report.Analysis.Justification)

	fmt.Println("\nActionable items:")
	printList(report.Actions.Items)

	if len(report.Improvements.Improvements) > 0 {
		fmt.Println("\nSuggested CV improvements:")
		for _, improvement := range report.Improvements.Improvements {
			fmt.Printf("- [%s] %s\n    before: %s\n    after:  %s\n",
				improvement.Impact, improvement.Location, improvement.Original, improvement.Improved)
		}
	}
	return nil
}
