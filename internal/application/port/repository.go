package port

import (
	"context"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

// UserRepository defines persistence operations for User.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListDirectReports(ctx context.Context, managerID int64) ([]*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

// ExpenseRepository defines persistence operations for Expense.
// Update persists status, current approver and any new history entries
// atomically; history rows are append-only.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id int64) (*entity.Expense, error)
	List(ctx context.Context) ([]*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
