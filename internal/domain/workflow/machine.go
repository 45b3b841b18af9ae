package workflow

import (
	"fmt"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// State is the approval position of an expense between decisions.
// CurrentApproverID is the single chain member whose action is awaited;
// it is nil whenever Status is terminal.
type State struct {
	Status            entity.ExpenseStatus
	CurrentApproverID *int64
}

// IsTerminal returns true if no further decisions are valid against the state
func (s State) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// Machine implements the approval state transitions. It is pure: callers
// own the Expense record and must serialize concurrent decisions against
// the same expense at the storage layer.
type Machine struct {
	threshold decimal.Decimal
}

// NewMachine creates a state machine with the configured auto-approval
// threshold, expressed in the reference currency.
func NewMachine(threshold decimal.Decimal) *Machine {
	return &Machine{threshold: threshold}
}

// Initialize decides the initial state of a newly submitted expense.
// An empty chain or a converted amount at or under the threshold bypasses
// human review entirely and yields an immediately approved expense.
func (m *Machine) Initialize(chain []int64, convertedAmount decimal.Decimal) State {
	if len(chain) == 0 || convertedAmount.LessThanOrEqual(m.threshold) {
		return State{Status: entity.ExpenseApproved}
	}
	first := chain[0]
	return State{Status: entity.ExpensePending, CurrentApproverID: &first}
}

// Decide applies one decision event and returns the next state plus the
// history entry to append. Only the awaited approver may act: any other
// actor, or a decision against a terminal state, fails without a state
// change. Transitions are deterministic in (state, chain, actor, action).
func (m *Machine) Decide(state State, chain []int64, actorID int64, action entity.DecisionAction, comment string) (State, entity.ApprovalHistoryEntry, error) {
	if state.IsTerminal() {
		return state, entity.ApprovalHistoryEntry{},
			fmt.Errorf("%w: status is %s", ErrExpenseFinalized, state.Status)
	}
	if state.CurrentApproverID == nil || *state.CurrentApproverID != actorID {
		return state, entity.ApprovalHistoryEntry{},
			fmt.Errorf("%w: user %d", ErrNotCurrentApprover, actorID)
	}
	if !action.IsValid() {
		return state, entity.ApprovalHistoryEntry{},
			fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	entry := entity.ApprovalHistoryEntry{
		ApproverID: actorID,
		Action:     action,
		Comment:    comment,
	}

	if action == entity.ActionRejected {
		return State{Status: entity.ExpenseRejected}, entry, nil
	}

	// The pending precondition guarantees the actor appears in the chain.
	next := m.successor(chain, actorID)
	if next == nil {
		return State{Status: entity.ExpenseApproved}, entry, nil
	}
	return State{Status: entity.ExpensePending, CurrentApproverID: next}, entry, nil
}

// successor returns the approver after actorID in the chain, or nil when
// the actor is the last (or only) chain member.
func (m *Machine) successor(chain []int64, actorID int64) *int64 {
	for i, id := range chain {
		if id == actorID && i < len(chain)-1 {
			next := chain[i+1]
			return &next
		}
	}
	return nil
}
