package workflow

import "github.com/expenseflow/expenseflow/internal/domain/entity"

// ChainBuilder constructs the ordered approver chain for a new expense.
// The chain is fixed at submission time: the submitter's direct manager
// first, then the designated top-level admin unless the submitter is an
// admin or the manager already is that admin.
type ChainBuilder struct {
	topAdminID int64
}

// NewChainBuilder creates a chain builder with the configured top-level
// admin identity.
func NewChainBuilder(topAdminID int64) *ChainBuilder {
	return &ChainBuilder{topAdminID: topAdminID}
}

// Build returns the ordered, de-duplicated approver chain for the
// submitter. The result may be empty (e.g. the top-level admin submitting
// their own expense), which the state machine treats as auto-approval.
func (b *ChainBuilder) Build(submitter *entity.User) []int64 {
	var chain []int64

	if submitter.ManagerID != nil {
		chain = append(chain, *submitter.ManagerID)
	}

	if submitter.Role != entity.RoleAdmin &&
		(submitter.ManagerID == nil || *submitter.ManagerID != b.topAdminID) {
		chain = append(chain, b.topAdminID)
	}

	return dedupeOrdered(chain)
}

// dedupeOrdered removes duplicate identities preserving first-occurrence
// order. Chain order determines who approves next, so it must be stable.
func dedupeOrdered(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	result := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}
