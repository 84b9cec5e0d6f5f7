package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-matcher/internal/completion"
	"github.com/jonathan/cv-matcher/internal/config"
	"github.com/jonathan/cv-matcher/internal/ingest"
	"github.com/jonathan/cv-matcher/internal/ledger"
	"github.com/jonathan/cv-matcher/internal/match"
)

// Flags shared by the feature commands.
var (
	cvPath     string
	jobPath    string
	jobURL     string
	useBrowser bool
	wordLimit  int
	tokens     int
)

// addInputFlags registers the CV and job description flags on a feature
// command.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cvPath, "cv", "", "Path to CV text file (required)")
	cmd.Flags().StringVar(&jobPath, "job", "", "Path to job description text file")
	cmd.Flags().StringVar(&jobURL, "job-url", "", "URL to fetch the job description from")
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Render the job posting URL with a headless browser")
	cmd.Flags().IntVar(&tokens, "tokens", 1000, "Local token balance for this run")
	_ = cmd.MarkFlagRequired("cv")
}

// loadRequest reads the CV file and the job description from a file or
// URL.
func loadRequest(ctx context.Context) (match.Request, error) {
	var req match.Request

	if cvPath == "" {
		return req, fmt.Errorf("--cv is required")
	}
	cv, err := os.ReadFile(cvPath)
	if err != nil {
		return req, fmt.Errorf("failed to read CV file: %w", err)
	}
	req.CVText = string(cv)

	switch {
	case jobPath != "" && jobURL != "":
		return req, fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	case jobPath != "":
		jd, err := os.ReadFile(jobPath)
		if err != nil {
			return req, fmt.Errorf("failed to read job description file: %w", err)
		}
		req.JobDescription = string(jd)
	case jobURL != "":
		posting, err := ingest.NewService(ingest.Options{EnableBrowser: useBrowser}).JobDescription(ctx, jobURL, useBrowser)
		if err != nil {
			return req, err
		}
		req.JobDescription = posting.Text
	default:
		return req, fmt.Errorf("either --job or --job-url must be provided")
	}

	req.WordLimit = wordLimit
	return req, nil
}

// newCoordinator builds a coordinator over an in-memory single-user
// session. The CLI has no accounts; --tokens sets the local balance.
func newCoordinator() (*match.Coordinator, *match.Workspace, func(), error) {
	completionConfig, err := config.NewCompletionConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := completion.NewClient(context.Background(), completionConfig.ClientConfig())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	session := ledger.NewMemorySession(&ledger.User{ID: uuid.New(), TokenBalance: tokens})
	coordinator := match.NewCoordinator(client, ledger.NewGuard(session))
	cleanup := func() { _ = client.Close() }
	return coordinator, match.NewWorkspace(), cleanup, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Minute)
}

// printList writes items as a numbered list.
func printList(items []string) {
	for i, item := range items {
		fmt.Printf("%d. %s\n", i+1, strings.TrimSpace(item))
	}
}
