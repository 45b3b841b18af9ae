package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/infrastructure/persistence/sqlite"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpenseRepository handles expense database operations. The approver
// chain is stored as a comma-joined column; the approval history lives in
// its own append-only table ordered by insertion.
type ExpenseRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sqlite.DB, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

const expenseColumns = `id, employee_id, amount, currency, converted_amount,
	category, description, date, status, approver_chain, current_approver_id,
	created_at, updated_at`

// Create inserts a new expense together with any initial history entries
func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	query := `
		INSERT INTO expenses (
			employee_id, amount, currency, converted_amount, category,
			description, date, status, approver_chain, current_approver_id,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		expense.EmployeeID,
		expense.Amount.String(),
		expense.Currency,
		expense.ConvertedAmount.String(),
		expense.Category,
		expense.Description,
		expense.Date,
		expense.Status.String(),
		encodeChain(expense.ApproverChain),
		nullableID(expense.CurrentApproverID),
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create expense", zap.Int64("employee_id", expense.EmployeeID), zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	expense.ID = id

	return r.appendHistory(ctx, expense)
}

// GetByID retrieves an expense with its history, returning (nil, nil) when absent
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

	expense, err := r.scanExpense(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if err != nil || expense == nil {
		return expense, err
	}

	history, err := r.historyFor(ctx, id)
	if err != nil {
		return nil, err
	}
	expense.History = history
	return expense, nil
}

// List retrieves all expenses with their histories, ordered by id
func (r *ExpenseRepository) List(ctx context.Context) ([]*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses ORDER BY id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*entity.Expense
	byID := make(map[int64]*entity.Expense)
	for rows.Next() {
		expense, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := r.attachHistories(ctx, byID); err != nil {
		return nil, err
	}
	return expenses, nil
}

// Update persists status, current approver and any new history entries.
// History rows are never rewritten; entries with a zero ID are appended.
func (r *ExpenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	query := `
		UPDATE expenses
		SET status = ?, current_approver_id = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		expense.Status.String(),
		nullableID(expense.CurrentApproverID),
		expense.UpdatedAt,
		expense.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update expense", zap.Int64("id", expense.ID), zap.Error(err))
		return fmt.Errorf("failed to update expense: %w", err)
	}

	return r.appendHistory(ctx, expense)
}

// appendHistory inserts history entries that have not been persisted yet
func (r *ExpenseRepository) appendHistory(ctx context.Context, expense *entity.Expense) error {
	query := `
		INSERT INTO expense_approvals (expense_id, approver_id, action, comment, decided_at)
		VALUES (?, ?, ?, ?, ?)
	`

	for i := range expense.History {
		entry := &expense.History[i]
		if entry.ID != 0 {
			continue
		}
		result, err := r.db.Executor(ctx).ExecContext(ctx, query,
			expense.ID,
			entry.ApproverID,
			entry.Action.String(),
			entry.Comment,
			entry.DecidedAt,
		)
		if err != nil {
			r.logger.Error("Failed to append history entry",
				zap.Int64("expense_id", expense.ID),
				zap.Int64("approver_id", entry.ApproverID),
				zap.Error(err))
			return fmt.Errorf("failed to append history entry: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		entry.ID = id
		entry.ExpenseID = expense.ID
	}
	return nil
}

const historyColumns = `id, expense_id, approver_id, action, comment, decided_at`

// historyFor loads the ordered history of a single expense
func (r *ExpenseRepository) historyFor(ctx context.Context, expenseID int64) ([]entity.ApprovalHistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM expense_approvals WHERE expense_id = ? ORDER BY id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, expenseID)
	if err != nil {
		r.logger.Error("Failed to load history", zap.Int64("expense_id", expenseID), zap.Error(err))
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var history []entity.ApprovalHistoryEntry
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}

// attachHistories loads all histories in one query and distributes them
func (r *ExpenseRepository) attachHistories(ctx context.Context, byID map[int64]*entity.Expense) error {
	if len(byID) == 0 {
		return nil
	}

	query := `SELECT ` + historyColumns + ` FROM expense_approvals ORDER BY expense_id, id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to load histories", zap.Error(err))
		return fmt.Errorf("failed to load histories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return err
		}
		if expense, ok := byID[entry.ExpenseID]; ok {
			expense.History = append(expense.History, entry)
		}
	}
	return rows.Err()
}

func scanHistoryEntry(rows *sql.Rows) (entity.ApprovalHistoryEntry, error) {
	var entry entity.ApprovalHistoryEntry
	var action string
	err := rows.Scan(
		&entry.ID,
		&entry.ExpenseID,
		&entry.ApproverID,
		&action,
		&entry.Comment,
		&entry.DecidedAt,
	)
	if err != nil {
		return entry, fmt.Errorf("failed to scan history entry: %w", err)
	}
	entry.Action = entity.DecisionAction(action)
	return entry, nil
}

func (r *ExpenseRepository) scanExpense(row rowScanner) (*entity.Expense, error) {
	var expense entity.Expense
	var amount, converted, status, chain string
	var currentApprover sql.NullInt64

	err := row.Scan(
		&expense.ID,
		&expense.EmployeeID,
		&amount,
		&expense.Currency,
		&converted,
		&expense.Category,
		&expense.Description,
		&expense.Date,
		&status,
		&chain,
		&currentApprover,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to scan expense", zap.Error(err))
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	if expense.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	if expense.ConvertedAmount, err = decimal.NewFromString(converted); err != nil {
		return nil, fmt.Errorf("invalid stored converted amount %q: %w", converted, err)
	}
	expense.Status = entity.ExpenseStatus(status)
	if expense.ApproverChain, err = decodeChain(chain); err != nil {
		return nil, fmt.Errorf("invalid stored approver chain %q: %w", chain, err)
	}
	if currentApprover.Valid {
		expense.CurrentApproverID = &currentApprover.Int64
	}
	return &expense, nil
}

// encodeChain serializes an approver chain as a comma-joined id list
func encodeChain(chain []int64) string {
	if len(chain) == 0 {
		return ""
	}
	parts := make([]string, len(chain))
	for i, id := range chain {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// decodeChain parses a comma-joined id list back into an approver chain
func decodeChain(encoded string) ([]int64, error) {
	if encoded == "" {
		return nil, nil
	}
	parts := strings.Split(encoded, ",")
	chain := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		chain = append(chain, id)
	}
	return chain, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
