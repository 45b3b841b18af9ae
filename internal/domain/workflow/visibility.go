package workflow

import "github.com/expenseflow/expenseflow/internal/domain/entity"

// VisibleTo reports whether the viewer may see the expense.
// directReports holds the IDs of users whose manager is the viewer
// (one level only, not transitive); it is consulted for managers.
//
// Admins see everything; managers see their team's expenses plus any
// expense currently awaiting their decision; everyone else sees only
// their own submissions.
func VisibleTo(viewer *entity.User, directReports map[int64]bool, e *entity.Expense) bool {
	switch viewer.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleManager:
		if directReports[e.EmployeeID] {
			return true
		}
		return e.CurrentApproverID != nil && *e.CurrentApproverID == viewer.ID
	default:
		return e.EmployeeID == viewer.ID
	}
}

// FilterVisible returns the subset of expenses visible to the viewer,
// preserving input order.
func FilterVisible(viewer *entity.User, directReports map[int64]bool, expenses []*entity.Expense) []*entity.Expense {
	visible := make([]*entity.Expense, 0, len(expenses))
	for _, e := range expenses {
		if VisibleTo(viewer, directReports, e) {
			visible = append(visible, e)
		}
	}
	return visible
}
