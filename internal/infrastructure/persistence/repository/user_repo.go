package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// UserRepository handles user directory database operations
type UserRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlite.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, name, email, role, manager_id, status, password_hash, created_at`

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (name, email, role, manager_id, status, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	managerID := sql.NullInt64{}
	if user.ManagerID != nil {
		managerID = sql.NullInt64{Int64: *user.ManagerID, Valid: true}
	}

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		user.Name,
		user.Email,
		user.Role.String(),
		managerID,
		user.Status,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID retrieves a user by ID, returning (nil, nil) when absent
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanUser(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email, returning (nil, nil) when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanUser(r.db.Executor(ctx).QueryRowContext(ctx, query, email))
}

// ListDirectReports retrieves the users whose manager is managerID
func (r *UserRepository) ListDirectReports(ctx context.Context, managerID int64) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE manager_id = ? ORDER BY id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, managerID)
	if err != nil {
		r.logger.Error("Failed to list direct reports", zap.Int64("manager_id", managerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list direct reports: %w", err)
	}
	defer rows.Close()

	return r.collectUsers(rows)
}

// List retrieves all users ordered by id
func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	return r.collectUsers(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *UserRepository) scanUser(row rowScanner) (*entity.User, error) {
	var user entity.User
	var role string
	var managerID sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&role,
		&managerID,
		&user.Status,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to scan user", zap.Error(err))
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Role = entity.Role(role)
	if managerID.Valid {
		user.ManagerID = &managerID.Int64
	}
	return &user, nil
}

func (r *UserRepository) collectUsers(rows *sql.Rows) ([]*entity.User, error) {
	var users []*entity.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
