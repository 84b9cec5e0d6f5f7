// Package ledger enforces the prepaid token balance that gates paid
// features. Every paid action is authorized against the cost table before
// the completion API is called, and debited exactly once after the whole
// action has succeeded. Failures never touch the balance.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Feature identifies a paid feature.
type Feature string

// Paid features.
const (
	FeatureAnalysis    Feature = "analysis"
	FeatureOptimize    Feature = "optimize"
	FeatureCoverLetter Feature = "cover-letter"
	FeatureInterview   Feature = "interview"
)

// costs is the static cost table. Read-only, process-wide.
var costs = map[Feature]int{
	FeatureAnalysis:    10,
	FeatureOptimize:    8,
	FeatureCoverLetter: 5,
	FeatureInterview:   5,
}

// Cost returns the token cost of a feature.
func Cost(feature Feature) (int, bool) {
	cost, ok := costs[feature]
	return cost, ok
}

// CostTable returns a copy of the full cost table.
func CostTable() map[Feature]int {
	table := make(map[Feature]int, len(costs))
	for feature, cost := range costs {
		table[feature] = cost
	}
	return table
}

// User is the ledger's view of the authenticated user.
type User struct {
	ID           uuid.UUID
	TokenBalance int
}

// Session exposes the authenticated user and balance persistence. The
// session is an injected dependency, never ambient global state.
type Session interface {
	// CurrentUser returns the authenticated user, or nil if none.
	CurrentUser(ctx context.Context) (*User, error)
	// SetTokenBalance writes a new balance for the user.
	SetTokenBalance(ctx context.Context, id uuid.UUID, balance int) error
}

// AtomicDebiter is an optional Session capability: a conditional debit
// that re-checks the balance in the store, so two concurrent paid actions
// cannot drive it negative.
type AtomicDebiter interface {
	// DebitTokens subtracts amount if the stored balance covers it and
	// returns the new balance.
	DebitTokens(ctx context.Context, id uuid.UUID, amount int) (int, error)
}

// Guard authorizes and debits paid features against a session.
type Guard struct {
	session Session
}

// NewGuard creates a Guard over the given session.
func NewGuard(session Session) *Guard {
	return &Guard{session: session}
}

// Authorize checks that an authenticated user exists and can afford the
// feature. On failure the caller must not call the completion API.
func (g *Guard) Authorize(ctx context.Context, feature Feature) (*User, error) {
	cost, ok := Cost(feature)
	if !ok {
		return nil, fmt.Errorf("unknown feature %q", feature)
	}

	user, err := g.session.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	if user == nil {
		return nil, &AuthRequiredError{}
	}

	if user.TokenBalance < cost {
		return nil, &InsufficientBalanceError{Feature: feature, Cost: cost, Balance: user.TokenBalance}
	}
	return user, nil
}

// Debit subtracts the feature cost from the user's balance and persists
// it. Call exactly once, and only after the completion and parse stages
// have fully succeeded.
func (g *Guard) Debit(ctx context.Context, user *User, feature Feature) (int, error) {
	cost, ok := Cost(feature)
	if !ok {
		return 0, fmt.Errorf("unknown feature %q", feature)
	}

	if debiter, ok := g.session.(AtomicDebiter); ok {
		newBalance, err := debiter.DebitTokens(ctx, user.ID, cost)
		if err != nil {
			return 0, err
		}
		user.TokenBalance = newBalance
		return newBalance, nil
	}

	if user.TokenBalance < cost {
		return 0, &InsufficientBalanceError{Feature: feature, Cost: cost, Balance: user.TokenBalance}
	}

	newBalance := user.TokenBalance - cost
	if err := g.session.SetTokenBalance(ctx, user.ID, newBalance); err != nil {
		return 0, fmt.Errorf("failed to persist balance: %w", err)
	}
	user.TokenBalance = newBalance
	return newBalance, nil
}
