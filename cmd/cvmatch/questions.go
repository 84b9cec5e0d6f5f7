package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate likely interview questions",
	RunE:  runQuestions,
}

func init() {
	addInputFlags(questionsCmd)
	rootCmd.AddCommand(questionsCmd)
}

func runQuestions(_ *cobra.Command, _ []string) error {
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

	questions, err := coordinator.GenerateQuestions(ctx, ws, req)
	if err != nil {
		return err
	}

	for i, question := range questions.Questions {
		if question.Category != "" {
			fmt.Printf("%d. (%s) %s\n", i+1, question.Category, question.Question)
			continue
		}
		fmt.Printf("%d. %s\n", i+1, question.Question)
	}
	return nil
}
