package service

import (
	"context"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

// Mock repositories in the function-field style: each test overrides only
// the calls it cares about.

type mockUserRepo struct {
	createFunc            func(ctx context.Context, user *entity.User) error
	getByIDFunc           func(ctx context.Context, id int64) (*entity.User, error)
	getByEmailFunc        func(ctx context.Context, email string) (*entity.User, error)
	listDirectReportsFunc func(ctx context.Context, managerID int64) ([]*entity.User, error)
	listFunc              func(ctx context.Context) ([]*entity.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) ListDirectReports(ctx context.Context, managerID int64) ([]*entity.User, error) {
	if m.listDirectReportsFunc != nil {
		return m.listDirectReportsFunc(ctx, managerID)
	}
	return nil, nil
}

func (m *mockUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type mockExpenseRepo struct {
	createFunc  func(ctx context.Context, expense *entity.Expense) error
	getByIDFunc func(ctx context.Context, id int64) (*entity.Expense, error)
	listFunc    func(ctx context.Context) ([]*entity.Expense, error)
	updateFunc  func(ctx context.Context, expense *entity.Expense) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, expense)
	}
	expense.ID = 1
	return nil
}

func (m *mockExpenseRepo) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockExpenseRepo) List(ctx context.Context) ([]*entity.Expense, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockExpenseRepo) Update(ctx context.Context, expense *entity.Expense) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, expense)
	}
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
