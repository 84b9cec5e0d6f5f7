package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/cv-matcher/internal/ledger"
	"github.com/jonathan/cv-matcher/internal/match"
	"github.com/jonathan/cv-matcher/internal/server/middleware"
)

// storeSession binds the ledger to one authenticated user for the
// duration of a request. It implements ledger.Session and
// ledger.AtomicDebiter, so debits re-check the stored balance and two
// concurrent paid actions cannot drive it negative.
type storeSession struct {
	store  Store
	userID uuid.UUID
}

func (s *storeSession) CurrentUser(ctx context.Context) (*ledger.User, error) {
	user, err := s.store.GetUser(ctx, s.userID)
	if err != nil || user == nil {
		return nil, err
	}
	return &ledger.User{ID: user.ID, TokenBalance: user.TokenBalance}, nil
}

func (s *storeSession) SetTokenBalance(ctx context.Context, id uuid.UUID, balance int) error {
	return s.store.SetTokenBalance(ctx, id, balance)
}

func (s *storeSession) DebitTokens(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	remaining, err := s.store.DebitTokens(ctx, id, amount)
	if err == pgx.ErrNoRows {
		// The conditional update matched no row: balance changed since
		// authorization.
		balance := 0
		if user, userErr := s.store.GetUser(ctx, id); userErr == nil && user != nil {
			balance = user.TokenBalance
		}
		return 0, &ledger.InsufficientBalanceError{Cost: amount, Balance: balance}
	}
	return remaining, err
}

// coordinatorFor builds a per-request coordinator bound to the
// authenticated user.
func (s *Server) coordinatorFor(userID uuid.UUID) *match.Coordinator {
	session := &storeSession{store: s.store, userID: userID}
	return match.NewCoordinator(s.completion, ledger.NewGuard(session))
}

// featureResponse is the envelope for successful paid-feature calls.
type featureResponse struct {
	Result       any `json:"result"`
	TokenBalance int `json:"token_balance"`
}

func (s *Server) runFeature(w http.ResponseWriter, r *http.Request,
	run func(ctx context.Context, ws *match.Workspace, req match.Request) (any, error)) {

	userID, ok := middleware.UserID(r)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req match.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := run(r.Context(), s.workspaceFor(userID), req)
	if err != nil {
		errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	balance := 0
	if user, userErr := s.store.GetUser(r.Context(), userID); userErr == nil && user != nil {
		balance = user.TokenBalance
	}
	jsonResponse(w, http.StatusOK, featureResponse{Result: result, TokenBalance: balance})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	coordinator := s.coordinatorFor(userID)
	s.runFeature(w, r, func(ctx context.Context, ws *match.Workspace, req match.Request) (any, error) {
		return coordinator.Analyze(ctx, ws, req)
	})
}

func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	coordinator := s.coordinatorFor(userID)
	s.runFeature(w, r, func(ctx context.Context, ws *match.Workspace, req match.Request) (any, error) {
		return coordinator.GenerateCoverLetter(ctx, ws, req)
	})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	coordinator := s.coordinatorFor(userID)
	s.runFeature(w, r, func(ctx context.Context, ws *match.Workspace, req match.Request) (any, error) {
		return coordinator.OptimizeCV(ctx, ws, req)
	})
}

func (s *Server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)
	coordinator := s.coordinatorFor(userID)
	s.runFeature(w, r, func(ctx context.Context, ws *match.Workspace, req match.Request) (any, error) {
		return coordinator.GenerateQuestions(ctx, ws, req)
	})
}

// handleMatchState returns the per-feature call states and the active
// section for the authenticated user.
func (s *Server) handleMatchState(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	jsonResponse(w, http.StatusOK, s.workspaceFor(userID).Snapshot())
}

// validSections are the accepted active-section values.
var validSections = map[match.Section]bool{
	match.SectionInput:           true,
	match.SectionAnalysis:        true,
	match.SectionActionableItems: true,
	match.SectionOptimizeCV:      true,
	match.SectionCoverLetter:     true,
	match.SectionInterview:       true,
}

func (s *Server) handleSetActiveSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Section match.Section `json:"section"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validSections[req.Section] {
		errorResponse(w, http.StatusBadRequest, "Unknown section")
		return
	}

	ws := s.workspaceFor(userID)
	ws.SetActiveSection(req.Section)
	jsonResponse(w, http.StatusOK, ws.Snapshot())
}

// handleCosts returns the feature cost table.
func (s *Server) handleCosts(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, ledger.CostTable())
}
