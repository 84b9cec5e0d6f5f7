// Package main provides the entry point for the CV matcher CLI and HTTP
// API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cvmatch",
	Short: "CV vs job description analyzer",
	Long:  "cvmatch analyzes a CV against a job description, suggests CV improvements, and drafts cover letters and interview questions, backed by a chat-completion API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
