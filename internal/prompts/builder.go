package prompts

import "strconv"

// Cover letter word-limit bounds. The UI exposed 100-1000; out-of-range
// values fall back to the default.
const (
	DefaultWordLimit = 200
	MinWordLimit     = 100
	MaxWordLimit     = 1000
)

// User text is interpolated verbatim: no sanitization is performed, so a
// user can inject instructions into their own prompt. That is an accepted
// risk boundary, not a defect.

// Analysis builds the suitability-score prompt. The template instructs the
// model to return a {"score", "justification"} JSON object.
func Analysis(cvText, jobDescription string) string {
	return Format(MustGet("analysis"), map[string]string{
		"CV":             cvText,
		"JobDescription": jobDescription,
	})
}

// ActionableItems builds the improvement-steps prompt (plain list output).
func ActionableItems(cvText, jobDescription string) string {
	return Format(MustGet("actionable-items"), map[string]string{
		"CV":             cvText,
		"JobDescription": jobDescription,
	})
}

// OptimizeCV builds the CV-improvement prompt. The template instructs the
// model to return an {"improvements": [...]} JSON object.
func OptimizeCV(cvText, jobDescription string) string {
	return Format(MustGet("optimize-cv"), map[string]string{
		"CV":             cvText,
		"JobDescription": jobDescription,
	})
}

// CoverLetter builds the cover-letter prompt with a word limit.
func CoverLetter(cvText, jobDescription string, wordLimit int) string {
	if wordLimit < MinWordLimit || wordLimit > MaxWordLimit {
		wordLimit = DefaultWordLimit
	}
	return Format(MustGet("cover-letter"), map[string]string{
		"CV":             cvText,
		"JobDescription": jobDescription,
		"WordLimit":      strconv.Itoa(wordLimit),
	})
}

// InterviewQuestions builds the interview-question prompt (question-list
// JSON output).
func InterviewQuestions(cvText, jobDescription string) string {
	return Format(MustGet("interview-questions"), map[string]string{
		"CV":             cvText,
		"JobDescription": jobDescription,
	})
}
