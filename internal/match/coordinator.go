// Package match contains the per-feature action handlers: the glue that
// authorizes a paid feature, builds its prompt, calls the completion API,
// parses the response, commits workspace state, and debits the ledger.
package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-matcher/internal/completion"
	"github.com/jonathan/cv-matcher/internal/ledger"
	"github.com/jonathan/cv-matcher/internal/parsing"
	"github.com/jonathan/cv-matcher/internal/prompts"
)

// Request carries the user input for one feature invocation.
type Request struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description"`
	WordLimit      int    `json:"word_limit,omitempty"`
}

// AnalysisReport is the combined result of the analyze action's three
// parallel completions.
type AnalysisReport struct {
	Analysis     parsing.Analysis     `json:"analysis"`
	Actions      parsing.Actions      `json:"actions"`
	Improvements parsing.Improvements `json:"improvements"`
}

// Coordinator runs the per-feature action handlers.
type Coordinator struct {
	client completion.Client
	guard  *ledger.Guard
	now    func() time.Time
}

// NewCoordinator creates a Coordinator over a completion client and a
// ledger guard.
func NewCoordinator(client completion.Client, guard *ledger.Guard) *Coordinator {
	return &Coordinator{
		client: client,
		guard:  guard,
		now:    time.Now,
	}
}

// validate rejects empty or whitespace-only inputs before any guard or
// network effect.
func (r Request) validate() error {
	if strings.TrimSpace(r.CVText) == "" || strings.TrimSpace(r.JobDescription) == "" {
		return errMissingInput()
	}
	return nil
}

// Analyze runs the analysis feature: three completions in flight at once
// (score/justification, actionable items, CV improvements), joined
// all-or-nothing. The ledger is debited once, only when all three calls
// and parses succeed.
func (c *Coordinator) Analyze(ctx context.Context, ws *Workspace, req Request) (*AnalysisReport, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	user, err := c.guard.Authorize(ctx, ledger.FeatureAnalysis)
	if err != nil {
		return nil, err
	}

	seq := ws.begin(ledger.FeatureAnalysis)
	defer ws.finish(ledger.FeatureAnalysis, seq)

	var report AnalysisReport
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := c.completeAndParse(gCtx, prompts.Analysis(req.CVText, req.JobDescription),
			completion.DefaultMaxTokens, parsing.KindScoreAnalysis)
		if err != nil {
			return fmt.Errorf("suitability score: %w", err)
		}
		report.Analysis = result.(parsing.Analysis)
		return nil
	})

	g.Go(func() error {
		result, err := c.completeAndParse(gCtx, prompts.ActionableItems(req.CVText, req.JobDescription),
			completion.DefaultMaxTokens, parsing.KindActionList)
		if err != nil {
			return fmt.Errorf("actionable items: %w", err)
		}
		report.Actions = result.(parsing.Actions)
		return nil
	})

	g.Go(func() error {
		result, err := c.completeAndParse(gCtx, prompts.OptimizeCV(req.CVText, req.JobDescription),
			completion.OptimizeMaxTokens, parsing.KindImprovementList)
		if err != nil {
			return fmt.Errorf("optimization: %w", err)
		}
		report.Improvements = result.(parsing.Improvements)
		return nil
	})

	if err := g.Wait(); err != nil {
		ws.fail(ledger.FeatureAnalysis, seq, fmt.Sprintf("Analysis failed: %v", err))
		return nil, err
	}

	if _, err := c.guard.Debit(ctx, user, ledger.FeatureAnalysis); err != nil {
		ws.fail(ledger.FeatureAnalysis, seq, fmt.Sprintf("Analysis failed: %v", err))
		return nil, err
	}

	ws.commit(ledger.FeatureAnalysis, seq, report, SectionAnalysis)
	return &report, nil
}

// GenerateCoverLetter runs the cover-letter feature with an optional word
// limit, filling date and name placeholders in the result.
func (c *Coordinator) GenerateCoverLetter(ctx context.Context, ws *Workspace, req Request) (*parsing.FreeText, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	user, err := c.guard.Authorize(ctx, ledger.FeatureCoverLetter)
	if err != nil {
		return nil, err
	}

	seq := ws.begin(ledger.FeatureCoverLetter)
	defer ws.finish(ledger.FeatureCoverLetter, seq)

	prompt := prompts.CoverLetter(req.CVText, req.JobDescription, req.WordLimit)
	result, err := c.completeAndParse(ctx, prompt, completion.DefaultMaxTokens, parsing.KindFreeText)
	if err != nil {
		ws.fail(ledger.FeatureCoverLetter, seq, fmt.Sprintf("Cover letter generation failed: %v", err))
		return nil, err
	}

	letter := result.(parsing.FreeText)
	letter.Text = parsing.FillPlaceholders(letter.Text, parsing.ExtractName(req.CVText), c.now())

	if _, err := c.guard.Debit(ctx, user, ledger.FeatureCoverLetter); err != nil {
		ws.fail(ledger.FeatureCoverLetter, seq, fmt.Sprintf("Cover letter generation failed: %v", err))
		return nil, err
	}

	ws.commit(ledger.FeatureCoverLetter, seq, letter, SectionCoverLetter)
	return &letter, nil
}

// OptimizeCV runs the standalone optimization feature.
func (c *Coordinator) OptimizeCV(ctx context.Context, ws *Workspace, req Request) (*parsing.Improvements, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	user, err := c.guard.Authorize(ctx, ledger.FeatureOptimize)
	if err != nil {
		return nil, err
	}

	seq := ws.begin(ledger.FeatureOptimize)
	defer ws.finish(ledger.FeatureOptimize, seq)

	prompt := prompts.OptimizeCV(req.CVText, req.JobDescription)
	result, err := c.completeAndParse(ctx, prompt, completion.OptimizeMaxTokens, parsing.KindImprovementList)
	if err != nil {
		ws.fail(ledger.FeatureOptimize, seq, fmt.Sprintf("CV optimization failed: %v", err))
		return nil, err
	}

	improvements := result.(parsing.Improvements)

	if _, err := c.guard.Debit(ctx, user, ledger.FeatureOptimize); err != nil {
		ws.fail(ledger.FeatureOptimize, seq, fmt.Sprintf("CV optimization failed: %v", err))
		return nil, err
	}

	ws.commit(ledger.FeatureOptimize, seq, improvements, SectionOptimizeCV)
	return &improvements, nil
}

// GenerateQuestions runs the interview-question feature.
func (c *Coordinator) GenerateQuestions(ctx context.Context, ws *Workspace, req Request) (*parsing.Questions, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	user, err := c.guard.Authorize(ctx, ledger.FeatureInterview)
	if err != nil {
		return nil, err
	}

	seq := ws.begin(ledger.FeatureInterview)
	defer ws.finish(ledger.FeatureInterview, seq)

	prompt := prompts.InterviewQuestions(req.CVText, req.JobDescription)
	result, err := c.completeAndParse(ctx, prompt, completion.DefaultMaxTokens, parsing.KindQuestionList)
	if err != nil {
		ws.fail(ledger.FeatureInterview, seq, fmt.Sprintf("Interview question generation failed: %v", err))
		return nil, err
	}

	questions := result.(parsing.Questions)

	if _, err := c.guard.Debit(ctx, user, ledger.FeatureInterview); err != nil {
		ws.fail(ledger.FeatureInterview, seq, fmt.Sprintf("Interview question generation failed: %v", err))
		return nil, err
	}

	ws.commit(ledger.FeatureInterview, seq, questions, SectionInterview)
	return &questions, nil
}

// completeAndParse is one completion call followed by one parse. No
// retries: a single raw response per invocation.
func (c *Coordinator) completeAndParse(ctx context.Context, prompt string, maxTokens int, kind parsing.Kind) (parsing.Result, error) {
	raw, err := c.client.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return nil, err
	}
	return parsing.Parse(raw, kind)
}
