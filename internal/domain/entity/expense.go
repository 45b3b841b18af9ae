package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus represents the approval status of an expense
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

var validExpenseStatuses = map[ExpenseStatus]bool{
	ExpensePending:  true,
	ExpenseApproved: true,
	ExpenseRejected: true,
}

var terminalExpenseStatuses = map[ExpenseStatus]bool{
	ExpenseApproved: true,
	ExpenseRejected: true,
}

// IsTerminal returns true if the status accepts no further decisions
func (s ExpenseStatus) IsTerminal() bool {
	return terminalExpenseStatuses[s]
}

// IsValid returns true if the status is a known expense status
func (s ExpenseStatus) IsValid() bool {
	return validExpenseStatuses[s]
}

// String returns the string representation of the status
func (s ExpenseStatus) String() string {
	return string(s)
}

// DecisionAction is the verdict an approver records on an expense
type DecisionAction string

const (
	ActionApproved DecisionAction = "approved"
	ActionRejected DecisionAction = "rejected"
)

// IsValid returns true if the action is a known decision action
func (a DecisionAction) IsValid() bool {
	return a == ActionApproved || a == ActionRejected
}

// String returns the string representation of the action
func (a DecisionAction) String() string {
	return string(a)
}

// Expense represents a reimbursement request. ConvertedAmount is computed
// once at submission in the reference currency and never recomputed.
// ApproverChain is fixed at submission; Status, CurrentApproverID and
// History are mutated only through the workflow state machine.
type Expense struct {
	ID                int64                  `json:"id"`
	EmployeeID        int64                  `json:"employee_id"`
	Amount            decimal.Decimal        `json:"amount"`
	Currency          string                 `json:"currency"`
	ConvertedAmount   decimal.Decimal        `json:"converted_amount"`
	Category          string                 `json:"category"`
	Description       string                 `json:"description"`
	Date              time.Time              `json:"date"`
	Status            ExpenseStatus          `json:"status"`
	ApproverChain     []int64                `json:"approver_chain"`
	CurrentApproverID *int64                 `json:"current_approver_id,omitempty"`
	History           []ApprovalHistoryEntry `json:"approval_history"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// ApprovalHistoryEntry is one recorded decision in an expense's append-only
// audit trail. Ordering is append order.
type ApprovalHistoryEntry struct {
	ID         int64          `json:"id"`
	ExpenseID  int64          `json:"expense_id"`
	ApproverID int64          `json:"approver_id"`
	Action     DecisionAction `json:"action"`
	Comment    string         `json:"comment,omitempty"`
	DecidedAt  time.Time      `json:"decided_at"`
}
