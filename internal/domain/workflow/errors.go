package workflow

import "errors"

var (
	// ErrInvalidAction is returned when a decision carries an unknown action value
	ErrInvalidAction = errors.New("invalid decision action")

	// ErrInvalidAmount is returned when a submitted amount is not positive
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrNotCurrentApprover is returned when the acting user is not the awaited approver
	ErrNotCurrentApprover = errors.New("actor is not the current approver")

	// ErrExpenseFinalized is returned when a decision targets a terminal expense
	ErrExpenseFinalized = errors.New("expense is already finalized")
)

// IsAuthorization reports whether err belongs to the authorization class:
// the actor may not act on the expense in its current state.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotCurrentApprover) || errors.Is(err, ErrExpenseFinalized)
}

// IsValidation reports whether err belongs to the validation class:
// malformed or out-of-domain input, rejected before any state change.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAction) || errors.Is(err, ErrInvalidAmount)
}
