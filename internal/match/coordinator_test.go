package match

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-matcher/internal/ledger"
	"github.com/jonathan/cv-matcher/internal/parsing"
)

const (
	testCV = "Jane Doe\nExperienced engineer with Go and Kubernetes"
	testJD = "Looking for engineer with distributed systems experience"
)

// fakeClient returns canned responses keyed by a substring of the prompt
// and records every call.
type fakeClient struct {
	mu        sync.Mutex
	calls     []string
	responses map[string]string // prompt substring -> response
	errors    map[string]error  // prompt substring -> error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		responses: make(map[string]string),
		errors:    make(map[string]error),
	}
}

func (f *fakeClient) Complete(_ context.Context, prompt string, _ int) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, prompt)
	f.mu.Unlock()

	for substr, err := range f.errors {
		if strings.Contains(prompt, substr) {
			return "", err
		}
	}
	for substr, response := range f.responses {
		if strings.Contains(prompt, substr) {
			return response, nil
		}
	}
	return "", errors.New("no canned response for prompt")
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Prompt substrings unique to each template.
const (
	analysisMarker  = "suitability score"
	actionsMarker   = "Actionable steps"
	optimizeMarker  = "targeted improvements"
	letterMarker    = "cover letter"
	questionsMarker = "interview questions"
)

func (f *fakeClient) stubAnalysisCalls() {
	f.responses[analysisMarker] = `{"score": 85, "justification": "Strong match"}`
	f.responses[actionsMarker] = "Add metrics\nMention Kubernetes"
	f.responses[optimizeMarker] = `{"improvements": [{"location": "Summary", "original": "a", "improved": "b", "impact": "High", "matchedRequirements": ["Go"]}]}`
}

func newTestSetup(balance int) (*Coordinator, *Workspace, *fakeClient, *ledger.MemorySession) {
	client := newFakeClient()
	session := ledger.NewMemorySession(&ledger.User{ID: uuid.New(), TokenBalance: balance})
	coordinator := NewCoordinator(client, ledger.NewGuard(session))
	return coordinator, NewWorkspace(), client, session
}

func balanceOf(t *testing.T, session *ledger.MemorySession) int {
	t.Helper()
	user, err := session.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	return user.TokenBalance
}

func TestAnalyze_Success(t *testing.T) {
	coordinator, ws, client, session := newTestSetup(100)
	client.stubAnalysisCalls()

	report, err := coordinator.Analyze(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.NoError(t, err)

	assert.Equal(t, 85, report.Analysis.Score)
	assert.Equal(t, "Strong match", report.Analysis.Justification)
	assert.Equal(t, []string{"Add metrics", "Mention Kubernetes"}, report.Actions.Items)
	require.Len(t, report.Improvements.Improvements, 1)

	// Three concurrent calls, one debit, section switched.
	assert.Equal(t, 3, client.callCount())
	assert.Equal(t, 90, balanceOf(t, session))

	snapshot := ws.Snapshot()
	assert.Equal(t, SectionAnalysis, snapshot.ActiveSection)
	state := snapshot.States[ledger.FeatureAnalysis]
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Equal(t, *report, state.Data)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	coordinator, ws, client, session := newTestSetup(100)
	client.stubAnalysisCalls()

	for _, req := range []Request{
		{CVText: "", JobDescription: testJD},
		{CVText: testCV, JobDescription: "   \n\t"},
	} {
		_, err := coordinator.Analyze(context.Background(), ws, req)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	}

	// No network call, no debit, no state change.
	assert.Equal(t, 0, client.callCount())
	assert.Equal(t, 100, balanceOf(t, session))
	assert.Equal(t, SectionInput, ws.Snapshot().ActiveSection)
}

func TestAnalyze_InsufficientBalance(t *testing.T) {
	coordinator, ws, client, session := newTestSetup(5)
	client.stubAnalysisCalls()

	_, err := coordinator.Analyze(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})

	var balanceErr *ledger.InsufficientBalanceError
	require.ErrorAs(t, err, &balanceErr)
	assert.Equal(t, 10, balanceErr.Cost)
	assert.Equal(t, 5, balanceErr.Balance)

	assert.Equal(t, 0, client.callCount())
	assert.Equal(t, 5, balanceOf(t, session))
}

func TestAnalyze_Unauthenticated(t *testing.T) {
	client := newFakeClient()
	client.stubAnalysisCalls()
	coordinator := NewCoordinator(client, ledger.NewGuard(ledger.NewMemorySession(nil)))

	_, err := coordinator.Analyze(context.Background(), NewWorkspace(), Request{CVText: testCV, JobDescription: testJD})

	var authErr *ledger.AuthRequiredError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 0, client.callCount())
}

func TestAnalyze_PartialFailureSkipsDebit(t *testing.T) {
	// One of the three parallel calls fails: all-or-nothing join, so the
	// feature fails and the balance is preserved.
	coordinator, ws, client, session := newTestSetup(100)
	client.stubAnalysisCalls()
	delete(client.responses, optimizeMarker)
	client.errors[optimizeMarker] = errors.New("boom")

	_, err := coordinator.Analyze(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.Error(t, err)

	assert.Equal(t, 100, balanceOf(t, session))
	state := ws.State(ledger.FeatureAnalysis)
	assert.False(t, state.Loading)
	assert.Contains(t, state.Error, "Analysis failed")
	assert.Contains(t, state.Error, "optimization")
	assert.Nil(t, state.Data)
}

func TestGenerateCoverLetter_Success(t *testing.T) {
	coordinator, ws, client, session := newTestSetup(100)
	client.responses[letterMarker] = "[Date]\n\nDear Hiring Manager,\n\nSincerely,\n[Your Name]"

	letter, err := coordinator.GenerateCoverLetter(context.Background(), ws, Request{
		CVText:         testCV,
		JobDescription: testJD,
		WordLimit:      300,
	})
	require.NoError(t, err)

	// Placeholders filled from the CV's first line and the current date.
	assert.Contains(t, letter.Text, "Jane Doe")
	assert.NotContains(t, letter.Text, "[Your Name]")
	assert.NotContains(t, letter.Text, "[Date]")

	assert.Equal(t, 95, balanceOf(t, session))
	assert.Equal(t, SectionCoverLetter, ws.Snapshot().ActiveSection)
}

func TestGenerateCoverLetter_WordLimitInPrompt(t *testing.T) {
	coordinator, ws, client, _ := newTestSetup(100)
	client.responses[letterMarker] = "Dear Hiring Manager,"

	_, err := coordinator.GenerateCoverLetter(context.Background(), ws, Request{
		CVText:         testCV,
		JobDescription: testJD,
		WordLimit:      450,
	})
	require.NoError(t, err)

	require.Len(t, client.calls, 1)
	assert.Contains(t, client.calls[0], "Under 450 words")
}

func TestOptimizeCV_MalformedJSON(t *testing.T) {
	coordinator, ws, client, session := newTestSetup(100)
	client.responses[optimizeMarker] = "Sure! Here are the improvements: just rewrite everything."

	_, err := coordinator.OptimizeCV(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})

	var parseErr *parsing.ParseError
	require.ErrorAs(t, err, &parseErr)

	state := ws.State(ledger.FeatureOptimize)
	assert.Nil(t, state.Data)
	assert.Contains(t, state.Error, "CV optimization failed")
	assert.False(t, state.Loading)
	assert.Equal(t, 100, balanceOf(t, session))
}

func TestOptimizeCV_Success(t *testing.T) {
	coordinator, ws, client, session := newTestSetup(20)
	client.responses[optimizeMarker] = `{"improvements": []}`

	improvements, err := coordinator.OptimizeCV(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.NoError(t, err)
	assert.NotNil(t, improvements.Improvements)
	assert.Equal(t, 12, balanceOf(t, session))
	assert.Equal(t, SectionOptimizeCV, ws.Snapshot().ActiveSection)
}

func TestGenerateQuestions_Success(t *testing.T) {
	coordinator, ws, client, session := newTestSetup(10)
	client.responses[questionsMarker] = `{"questions": [{"question": "Why Go?", "category": "technical"}]}`

	questions, err := coordinator.GenerateQuestions(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.NoError(t, err)
	require.Len(t, questions.Questions, 1)
	assert.Equal(t, 5, balanceOf(t, session))
	assert.Equal(t, SectionInterview, ws.Snapshot().ActiveSection)
}

func TestFailureDoesNotCrossFeatureBoundary(t *testing.T) {
	coordinator, ws, client, _ := newTestSetup(100)
	client.responses[questionsMarker] = `{"questions": []}`

	_, err := coordinator.GenerateQuestions(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.NoError(t, err)

	// Now fail a different feature.
	client.errors[letterMarker] = errors.New("network down")
	_, err = coordinator.GenerateCoverLetter(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.Error(t, err)

	// The interview feature's data is untouched; only the cover-letter
	// slice carries an error.
	interview := ws.State(ledger.FeatureInterview)
	assert.NotNil(t, interview.Data)
	assert.Empty(t, interview.Error)

	letter := ws.State(ledger.FeatureCoverLetter)
	assert.Contains(t, letter.Error, "Cover letter generation failed")
	assert.Nil(t, letter.Data)
}

func TestFailureKeepsPriorData(t *testing.T) {
	coordinator, ws, client, _ := newTestSetup(100)
	client.responses[optimizeMarker] = `{"improvements": []}`

	_, err := coordinator.OptimizeCV(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.NoError(t, err)

	// Second attempt fails; data from the first attempt survives.
	delete(client.responses, optimizeMarker)
	client.errors[optimizeMarker] = errors.New("boom")
	_, err = coordinator.OptimizeCV(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.Error(t, err)

	state := ws.State(ledger.FeatureOptimize)
	assert.NotNil(t, state.Data)
	assert.Contains(t, state.Error, "CV optimization failed")
}

func TestErrorClearsOnNewAttempt(t *testing.T) {
	coordinator, ws, client, _ := newTestSetup(100)
	client.errors[optimizeMarker] = errors.New("boom")

	_, err := coordinator.OptimizeCV(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.Error(t, err)
	assert.NotEmpty(t, ws.State(ledger.FeatureOptimize).Error)

	delete(client.errors, optimizeMarker)
	client.responses[optimizeMarker] = `{"improvements": []}`
	_, err = coordinator.OptimizeCV(context.Background(), ws, Request{CVText: testCV, JobDescription: testJD})
	require.NoError(t, err)
	assert.Empty(t, ws.State(ledger.FeatureOptimize).Error)
}

func TestWorkspace_StaleCommitDiscarded(t *testing.T) {
	ws := NewWorkspace()

	seq1 := ws.begin(ledger.FeatureOptimize)
	seq2 := ws.begin(ledger.FeatureOptimize)

	// The older attempt resolves late; its commit must be a no-op.
	assert.False(t, ws.commit(ledger.FeatureOptimize, seq1, "stale", SectionOptimizeCV))
	assert.True(t, ws.commit(ledger.FeatureOptimize, seq2, "fresh", SectionOptimizeCV))

	state := ws.State(ledger.FeatureOptimize)
	assert.Equal(t, "fresh", state.Data)

	// Same for failure and finish of the stale attempt.
	assert.False(t, ws.fail(ledger.FeatureOptimize, seq1, "stale error"))
	ws.finish(ledger.FeatureOptimize, seq1)
	assert.True(t, ws.State(ledger.FeatureOptimize).Loading)
	ws.finish(ledger.FeatureOptimize, seq2)
	assert.False(t, ws.State(ledger.FeatureOptimize).Loading)
}

func TestWorkspace_SetActiveSection(t *testing.T) {
	ws := NewWorkspace()
	assert.Equal(t, SectionInput, ws.Snapshot().ActiveSection)

	ws.SetActiveSection(SectionCoverLetter)
	assert.Equal(t, SectionCoverLetter, ws.Snapshot().ActiveSection)
}
