package service

import (
	"context"
	"testing"
	"time"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/domain/workflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approverRef(id int64) *int64 {
	return &id
}

func orgUsers() map[int64]*entity.User {
	manager := int64(2)
	admin := int64(1)
	return map[int64]*entity.User{
		1: {ID: 1, Role: entity.RoleAdmin, Email: "admin@expenseflow.com"},
		2: {ID: 2, Role: entity.RoleManager, ManagerID: &admin, Email: "sarah@expenseflow.com"},
		3: {ID: 3, Role: entity.RoleEmployee, ManagerID: &manager, Email: "mike@expenseflow.com"},
		4: {ID: 4, Role: entity.RoleEmployee, ManagerID: &manager, Email: "lisa@expenseflow.com"},
	}
}

func newTestExpenseService(userRepo *mockUserRepo, expenseRepo *mockExpenseRepo) ExpenseService {
	return NewExpenseService(
		userRepo,
		expenseRepo,
		&mockTxManager{},
		workflow.NewConverter("USD", map[string]float64{"USD": 1.0, "EUR": 1.09, "GBP": 1.25, "JPY": 0.0068}),
		workflow.NewChainBuilder(1),
		workflow.NewMachine(decimal.NewFromInt(100)),
		&mockLogger{},
	)
}

func directoryUserRepo() *mockUserRepo {
	users := orgUsers()
	return &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.User, error) {
			return users[id], nil
		},
		listDirectReportsFunc: func(ctx context.Context, managerID int64) ([]*entity.User, error) {
			var reports []*entity.User
			for _, u := range users {
				if u.ManagerID != nil && *u.ManagerID == managerID {
					reports = append(reports, u)
				}
			}
			return reports, nil
		},
	}
}

func TestExpenseService_Submit(t *testing.T) {
	tests := []struct {
		name              string
		employeeID        int64
		amount            string
		currency          string
		expectedStatus    entity.ExpenseStatus
		expectedConverted string
		expectedChain     []int64
		expectedAwaited   *int64
	}{
		{
			name:              "high EUR amount pends with manager",
			employeeID:        3,
			amount:            "250",
			currency:          "EUR",
			expectedStatus:    entity.ExpensePending,
			expectedConverted: "272.5",
			expectedChain:     []int64{2, 1},
			expectedAwaited:   approverRef(2),
		},
		{
			name:              "low USD amount auto-approves",
			employeeID:        3,
			amount:            "80",
			currency:          "usd",
			expectedStatus:    entity.ExpenseApproved,
			expectedConverted: "80",
			expectedChain:     []int64{2, 1},
		},
		{
			name:              "top admin submission auto-approves on empty chain",
			employeeID:        1,
			amount:            "5000",
			currency:          "USD",
			expectedStatus:    entity.ExpenseApproved,
			expectedConverted: "5000",
			expectedChain:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *entity.Expense
			expenseRepo := &mockExpenseRepo{
				createFunc: func(ctx context.Context, expense *entity.Expense) error {
					expense.ID = 42
					created = expense
					return nil
				},
			}
			svc := newTestExpenseService(directoryUserRepo(), expenseRepo)

			expense, err := svc.Submit(context.Background(), tt.employeeID, SubmitExpenseInput{
				Amount:   decimal.RequireFromString(tt.amount),
				Currency: tt.currency,
				Category: "Travel",
				Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			})
			require.NoError(t, err)
			require.NotNil(t, created)

			assert.Equal(t, int64(42), expense.ID)
			assert.Equal(t, tt.expectedStatus, expense.Status)
			assert.True(t, expense.ConvertedAmount.Equal(decimal.RequireFromString(tt.expectedConverted)),
				"converted = %s", expense.ConvertedAmount)
			assert.Equal(t, tt.expectedChain, expense.ApproverChain)
			assert.Empty(t, expense.History)
			if tt.expectedAwaited == nil {
				assert.Nil(t, expense.CurrentApproverID)
			} else {
				require.NotNil(t, expense.CurrentApproverID)
				assert.Equal(t, *tt.expectedAwaited, *expense.CurrentApproverID)
			}
		})
	}
}

func TestExpenseService_Submit_RejectsNonPositiveAmount(t *testing.T) {
	createCalled := false
	expenseRepo := &mockExpenseRepo{
		createFunc: func(ctx context.Context, expense *entity.Expense) error {
			createCalled = true
			return nil
		},
	}
	svc := newTestExpenseService(directoryUserRepo(), expenseRepo)

	for _, amount := range []string{"0", "-10"} {
		_, err := svc.Submit(context.Background(), 3, SubmitExpenseInput{
			Amount:   decimal.RequireFromString(amount),
			Currency: "USD",
		})
		assert.ErrorIs(t, err, workflow.ErrInvalidAmount)
		assert.True(t, workflow.IsValidation(err))
	}
	assert.False(t, createCalled)
}

func TestExpenseService_Submit_UnknownEmployee(t *testing.T) {
	svc := newTestExpenseService(directoryUserRepo(), &mockExpenseRepo{})

	_, err := svc.Submit(context.Background(), 999, SubmitExpenseInput{
		Amount:   decimal.NewFromInt(10),
		Currency: "USD",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func pendingExpense() *entity.Expense {
	return &entity.Expense{
		ID:                7,
		EmployeeID:        3,
		Amount:            decimal.NewFromInt(250),
		Currency:          "EUR",
		ConvertedAmount:   decimal.RequireFromString("272.5"),
		Status:            entity.ExpensePending,
		ApproverChain:     []int64{2, 1},
		CurrentApproverID: approverRef(2),
	}
}

func TestExpenseService_Decide_ApproveAdvancesChain(t *testing.T) {
	stored := pendingExpense()
	var updated *entity.Expense
	expenseRepo := &mockExpenseRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Expense, error) {
			return stored, nil
		},
		updateFunc: func(ctx context.Context, expense *entity.Expense) error {
			updated = expense
			return nil
		},
	}
	svc := newTestExpenseService(directoryUserRepo(), expenseRepo)

	expense, err := svc.Decide(context.Background(), 7, 2, entity.ActionApproved, "looks fine")
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, entity.ExpensePending, expense.Status)
	require.NotNil(t, expense.CurrentApproverID)
	assert.Equal(t, int64(1), *expense.CurrentApproverID)
	require.Len(t, expense.History, 1)
	assert.Equal(t, int64(2), expense.History[0].ApproverID)
	assert.Equal(t, entity.ActionApproved, expense.History[0].Action)
	assert.Equal(t, "looks fine", expense.History[0].Comment)
	assert.Equal(t, int64(7), expense.History[0].ExpenseID)
	assert.False(t, expense.History[0].DecidedAt.IsZero())
}

func TestExpenseService_Decide_RejectFinalizes(t *testing.T) {
	stored := pendingExpense()
	expenseRepo := &mockExpenseRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Expense, error) {
			return stored, nil
		},
	}
	svc := newTestExpenseService(directoryUserRepo(), expenseRepo)

	expense, err := svc.Decide(context.Background(), 7, 2, entity.ActionRejected, "no receipt")
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseRejected, expense.Status)
	assert.Nil(t, expense.CurrentApproverID)
	require.Len(t, expense.History, 1)
	assert.Equal(t, entity.ActionRejected, expense.History[0].Action)
}

func TestExpenseService_Decide_WrongActorDoesNotPersist(t *testing.T) {
	stored := pendingExpense()
	updateCalled := false
	expenseRepo := &mockExpenseRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Expense, error) {
			return stored, nil
		},
		updateFunc: func(ctx context.Context, expense *entity.Expense) error {
			updateCalled = true
			return nil
		},
	}
	svc := newTestExpenseService(directoryUserRepo(), expenseRepo)

	_, err := svc.Decide(context.Background(), 7, 1, entity.ActionApproved, "")
	assert.ErrorIs(t, err, workflow.ErrNotCurrentApprover)
	assert.False(t, updateCalled)
	assert.Empty(t, stored.History)
}

func TestExpenseService_Decide_TerminalExpense(t *testing.T) {
	stored := pendingExpense()
	stored.Status = entity.ExpenseRejected
	stored.CurrentApproverID = nil
	expenseRepo := &mockExpenseRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Expense, error) {
			return stored, nil
		},
	}
	svc := newTestExpenseService(directoryUserRepo(), expenseRepo)

	_, err := svc.Decide(context.Background(), 7, 1, entity.ActionApproved, "")
	assert.ErrorIs(t, err, workflow.ErrExpenseFinalized)
	assert.True(t, workflow.IsAuthorization(err))
}

func TestExpenseService_Decide_UnknownExpense(t *testing.T) {
	svc := newTestExpenseService(directoryUserRepo(), &mockExpenseRepo{})

	_, err := svc.Decide(context.Background(), 404, 2, entity.ActionApproved, "")
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestExpenseService_ListVisible(t *testing.T) {
	allExpenses := []*entity.Expense{
		{ID: 10, EmployeeID: 3, Status: entity.ExpensePending, CurrentApproverID: approverRef(2)},
		{ID: 11, EmployeeID: 4, Status: entity.ExpenseApproved},
		{ID: 12, EmployeeID: 2, Status: entity.ExpensePending, CurrentApproverID: approverRef(1)},
	}
	expenseRepo := &mockExpenseRepo{
		listFunc: func(ctx context.Context) ([]*entity.Expense, error) {
			return allExpenses, nil
		},
	}
	svc := newTestExpenseService(directoryUserRepo(), expenseRepo)

	tests := []struct {
		name        string
		viewerID    int64
		expectedIDs []int64
	}{
		{"admin sees all", 1, []int64{10, 11, 12}},
		{"manager sees team plus pending on them", 2, []int64{10, 11}},
		{"employee sees only own", 3, []int64{10}},
		{"other employee sees only own", 4, []int64{11}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible, err := svc.ListVisible(context.Background(), tt.viewerID)
			require.NoError(t, err)

			ids := make([]int64, 0, len(visible))
			for _, e := range visible {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestExpenseService_ListVisible_UnknownViewer(t *testing.T) {
	svc := newTestExpenseService(directoryUserRepo(), &mockExpenseRepo{})

	_, err := svc.ListVisible(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
