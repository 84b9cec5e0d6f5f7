package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-matcher/internal/export"
)

var (
	exportInput  string
	exportOutput string
	exportTitle  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a text document as PDF or DOC",
	Long:  "Render a generated document (an optimized CV or cover letter) into a downloadable PDF or DOC file. The format is taken from the output extension.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "in", "i", "", "Path to the text file to render (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output path ending in .pdf or .doc (required)")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "Document title")
	_ = exportCmd.MarkFlagRequired("in")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	text, err := os.ReadFile(exportInput)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var format export.Format
	switch {
	case len(exportOutput) > 4 && exportOutput[len(exportOutput)-4:] == ".pdf":
		format = export.FormatPDF
	case len(exportOutput) > 4 && exportOutput[len(exportOutput)-4:] == ".doc":
		format = export.FormatDOC
	default:
		return fmt.Errorf("output path must end in .pdf or .doc")
	}

	data, _, err := export.Render(export.Document{Title: exportTitle, Text: string(text)}, format)
	if err != nil {
		return err
	}

	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Wrote %s\n", exportOutput)
	return nil
}
