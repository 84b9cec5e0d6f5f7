package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter",
	Short: "Draft a cover letter for a job description",
	RunE:  runCoverLetter,
}

func init() {
	addInputFlags(coverLetterCmd)
	coverLetterCmd.Flags().IntVar(&wordLimit, "word-limit", 0, "Approximate word limit (100-1000, default 200)")
	rootCmd.AddCommand(coverLetterCmd)
}

func runCoverLetter(_ *cobra.Command, _ []string) error {
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

	letter, err := coordinator.GenerateCoverLetter(ctx, ws, req)
	if err != nil {
		return err
	}

	fmt.Println(letter.Text)
	return nil
}
