package ledger

import "fmt"

// AuthRequiredError indicates no authenticated user is present. The paid
// action must not proceed to the completion API.
type AuthRequiredError struct{}

func (e *AuthRequiredError) Error() string {
	return "sign in to use this feature"
}

// InsufficientBalanceError indicates the user's token balance does not
// cover the feature cost.
type InsufficientBalanceError struct {
	Feature Feature
	Cost    int
	Balance int
}

func (e *InsufficientBalanceError) Error() string {
	if e.Feature == "" {
		return fmt.Sprintf("insufficient tokens: requires %d, balance is %d", e.Cost, e.Balance)
	}
	return fmt.Sprintf("insufficient tokens for %s: requires %d, balance is %d", e.Feature, e.Cost, e.Balance)
}
