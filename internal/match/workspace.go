package match

import (
	"sync"

	"github.com/jonathan/cv-matcher/internal/ledger"
)

// Section identifies the active view of a workspace, mirroring the
// original side-menu navigation.
type Section string

// Workspace sections.
const (
	SectionInput           Section = "input"
	SectionAnalysis        Section = "analysis"
	SectionActionableItems Section = "actionableItems"
	SectionOptimizeCV      Section = "optimizeCV"
	SectionCoverLetter     Section = "coverLetter"
	SectionInterview       Section = "interview"
)

// CallState is the observable state of one feature's last call.
type CallState struct {
	Loading bool   `json:"loading"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Snapshot is a point-in-time copy of all feature states.
type Snapshot struct {
	States        map[ledger.Feature]CallState `json:"states"`
	ActiveSection Section                      `json:"active_section"`
}

// featureState tracks one feature's call state plus the attempt sequence
// used to discard stale commits.
type featureState struct {
	CallState
	seq uint64
}

// Workspace holds per-feature call state for one user. Each feature's
// handler writes only its own slice; a failure in one feature never
// clears or corrupts another's data.
type Workspace struct {
	mu     sync.Mutex
	states map[ledger.Feature]*featureState
	active Section
}

// NewWorkspace creates an empty workspace on the input section.
func NewWorkspace() *Workspace {
	return &Workspace{
		states: make(map[ledger.Feature]*featureState),
		active: SectionInput,
	}
}

// Snapshot returns a copy of all feature states and the active section.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snapshot := Snapshot{
		States:        make(map[ledger.Feature]CallState, len(w.states)),
		ActiveSection: w.active,
	}
	for feature, state := range w.states {
		snapshot.States[feature] = state.CallState
	}
	return snapshot
}

// SetActiveSection switches the active view without touching call state.
func (w *Workspace) SetActiveSection(section Section) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = section
}

// State returns the current call state of one feature.
func (w *Workspace) State(feature ledger.Feature) CallState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if state, ok := w.states[feature]; ok {
		return state.CallState
	}
	return CallState{}
}

// begin marks a new attempt: loading set, error cleared, prior data kept.
// The returned sequence must accompany the eventual commit or failure.
func (w *Workspace) begin(feature ledger.Feature) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	state, ok := w.states[feature]
	if !ok {
		state = &featureState{}
		w.states[feature] = state
	}
	state.seq++
	state.Loading = true
	state.Error = ""
	return state.seq
}

// commit stores data and switches the active section. A commit whose
// sequence is no longer current is a stale write and is discarded.
func (w *Workspace) commit(feature ledger.Feature, seq uint64, data any, section Section) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	state, ok := w.states[feature]
	if !ok || state.seq != seq {
		return false
	}
	state.Data = data
	state.Error = ""
	w.active = section
	return true
}

// fail records a feature-scoped error. Prior data stays untouched.
func (w *Workspace) fail(feature ledger.Feature, seq uint64, message string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	state, ok := w.states[feature]
	if !ok || state.seq != seq {
		return false
	}
	state.Error = message
	return true
}

// finish clears the loading flag. Always runs, success or failure.
func (w *Workspace) finish(feature ledger.Feature, seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	state, ok := w.states[feature]
	if !ok || state.seq != seq {
		return
	}
	state.Loading = false
}
