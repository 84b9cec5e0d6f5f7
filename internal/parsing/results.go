package parsing

// Kind identifies the expected shape of a completion response.
type Kind string

// Supported response kinds.
const (
	KindScoreAnalysis   Kind = "score-analysis"
	KindActionList      Kind = "action-list"
	KindImprovementList Kind = "improvement-list"
	KindQuestionList    Kind = "question-list"
	KindFreeText        Kind = "free-text"
)

// Result is the tagged union of parsed completion responses.
type Result interface {
	ResultKind() Kind
}

// Analysis holds the suitability score and its justification.
type Analysis struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

func (Analysis) ResultKind() Kind { return KindScoreAnalysis }

// Actions holds the actionable improvement steps as plain list items.
type Actions struct {
	Items []string `json:"items"`
}

func (Actions) ResultKind() Kind { return KindActionList }

// Improvement is one suggested CV change.
type Improvement struct {
	Location            string   `json:"location"`
	Original            string   `json:"original"`
	Improved            string   `json:"improved"`
	Impact              string   `json:"impact"`
	MatchedRequirements []string `json:"matchedRequirements"`
}

// Improvements holds the suggested CV changes. The slice is always
// non-nil once parsing succeeds, possibly empty.
type Improvements struct {
	Improvements []Improvement `json:"improvements"`
}

func (Improvements) ResultKind() Kind { return KindImprovementList }

// Question is one likely interview question.
type Question struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

// Questions holds the likely interview questions.
type Questions struct {
	Questions []Question `json:"questions"`
}

func (Questions) ResultKind() Kind { return KindQuestionList }

// FreeText holds an unstructured response, e.g. a cover letter.
type FreeText struct {
	Text string `json:"text"`
}

func (FreeText) ResultKind() Kind { return KindFreeText }
