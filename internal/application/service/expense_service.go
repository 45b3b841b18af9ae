package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/domain/workflow"
	"github.com/shopspring/decimal"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SubmitExpenseInput carries the fields an employee provides at submission
type SubmitExpenseInput struct {
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	Date        time.Time
}

// ExpenseService owns the expense lifecycle: submission routes through the
// converter, chain builder and state machine; decisions route through the
// state machine; reads route through the visibility filter.
type ExpenseService interface {
	Submit(ctx context.Context, employeeID int64, in SubmitExpenseInput) (*entity.Expense, error)
	Decide(ctx context.Context, expenseID, actorID int64, action entity.DecisionAction, comment string) (*entity.Expense, error)
	ListVisible(ctx context.Context, viewerID int64) ([]*entity.Expense, error)
}

type expenseServiceImpl struct {
	userRepo    port.UserRepository
	expenseRepo port.ExpenseRepository
	txManager   port.TransactionManager
	converter   *workflow.Converter
	chains      *workflow.ChainBuilder
	machine     *workflow.Machine
	logger      Logger
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	userRepo port.UserRepository,
	expenseRepo port.ExpenseRepository,
	txManager port.TransactionManager,
	converter *workflow.Converter,
	chains *workflow.ChainBuilder,
	machine *workflow.Machine,
	logger Logger,
) ExpenseService {
	return &expenseServiceImpl{
		userRepo:    userRepo,
		expenseRepo: expenseRepo,
		txManager:   txManager,
		converter:   converter,
		chains:      chains,
		machine:     machine,
		logger:      logger,
	}
}

// Submit validates the input, fixes the converted amount and approver chain,
// and persists the expense in its initial state.
func (s *expenseServiceImpl) Submit(ctx context.Context, employeeID int64, in SubmitExpenseInput) (*entity.Expense, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", workflow.ErrInvalidAmount, in.Amount)
	}

	submitter, err := s.userRepo.GetByID(ctx, employeeID)
	if err != nil {
		s.logger.Error("Failed to load submitter", "error", err, "user_id", employeeID)
		return nil, err
	}
	if submitter == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, employeeID)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	converted := s.converter.Convert(in.Amount, currency)
	chain := s.chains.Build(submitter)
	state := s.machine.Initialize(chain, converted)

	now := time.Now()
	expense := &entity.Expense{
		EmployeeID:        employeeID,
		Amount:            in.Amount,
		Currency:          currency,
		ConvertedAmount:   converted,
		Category:          in.Category,
		Description:       in.Description,
		Date:              in.Date,
		Status:            state.Status,
		ApproverChain:     chain,
		CurrentApproverID: state.CurrentApproverID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.expenseRepo.Create(txCtx, expense)
	})
	if err != nil {
		s.logger.Error("Failed to create expense", "error", err, "employee_id", employeeID)
		return nil, err
	}

	s.logger.Info("Expense submitted",
		"id", expense.ID,
		"employee_id", employeeID,
		"converted_amount", converted.String(),
		"status", expense.Status.String(),
		"chain_length", len(chain),
	)
	return expense, nil
}

// Decide applies one approval decision to a stored expense. The load and
// the write share one transaction so concurrent decisions against the same
// expense serialize at the storage layer; the state machine enforces that
// only the awaited approver may act.
func (s *expenseServiceImpl) Decide(ctx context.Context, expenseID, actorID int64, action entity.DecisionAction, comment string) (*entity.Expense, error) {
	var expense *entity.Expense
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		expense, err = s.expenseRepo.GetByID(txCtx, expenseID)
		if err != nil {
			s.logger.Error("Failed to load expense", "error", err, "expense_id", expenseID)
			return err
		}
		if expense == nil {
			return fmt.Errorf("%w: id %d", ErrExpenseNotFound, expenseID)
		}

		state := workflow.State{
			Status:            expense.Status,
			CurrentApproverID: expense.CurrentApproverID,
		}
		next, entry, err := s.machine.Decide(state, expense.ApproverChain, actorID, action, comment)
		if err != nil {
			return err
		}

		entry.ExpenseID = expense.ID
		entry.DecidedAt = time.Now()
		expense.Status = next.Status
		expense.CurrentApproverID = next.CurrentApproverID
		expense.History = append(expense.History, entry)
		expense.UpdatedAt = entry.DecidedAt

		return s.expenseRepo.Update(txCtx, expense)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Decision recorded",
		"expense_id", expense.ID,
		"approver_id", actorID,
		"action", action.String(),
		"status", expense.Status.String(),
	)
	return expense, nil
}

// ListVisible returns the expenses the viewer may see under their role.
func (s *expenseServiceImpl) ListVisible(ctx context.Context, viewerID int64) ([]*entity.Expense, error) {
	viewer, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		s.logger.Error("Failed to load viewer", "error", err, "user_id", viewerID)
		return nil, err
	}
	if viewer == nil {
		return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, viewerID)
	}

	expenses, err := s.expenseRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list expenses", "error", err)
		return nil, err
	}

	var directReports map[int64]bool
	if viewer.Role == entity.RoleManager {
		reports, err := s.userRepo.ListDirectReports(ctx, viewer.ID)
		if err != nil {
			s.logger.Error("Failed to list direct reports", "error", err, "manager_id", viewer.ID)
			return nil, err
		}
		directReports = make(map[int64]bool, len(reports))
		for _, r := range reports {
			directReports[r.ID] = true
		}
	}

	return workflow.FilterVisible(viewer, directReports, expenses), nil
}
