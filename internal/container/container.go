// Package container wires the application dependencies together.
// Initialization is ordered (config, logger, database, repositories,
// services, HTTP server) and teardown runs in reverse.
package container

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/expenseflow/expenseflow/internal/application/port"
	"github.com/expenseflow/expenseflow/internal/application/service"
	"github.com/expenseflow/expenseflow/internal/config"
	"github.com/expenseflow/expenseflow/internal/domain/workflow"
	"github.com/expenseflow/expenseflow/internal/infrastructure/persistence/repository"
	"github.com/expenseflow/expenseflow/internal/infrastructure/persistence/sqlite"
	httpapi "github.com/expenseflow/expenseflow/internal/interfaces/http"
	"github.com/expenseflow/expenseflow/pkg/database"
	"github.com/expenseflow/expenseflow/pkg/utils"
)

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	User    port.UserRepository
	Expense port.ExpenseRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Expense service.ExpenseService
	User    service.UserService
	Report  service.ReportService
}

// Container manages all application dependencies and lifecycle.
type Container struct {
	config       *config.Config
	logger       *zap.Logger
	db           *database.DB
	txDB         *sqlite.DB
	repositories *RepositoryBundle
	services     *ServiceBundle
	server       *httpapi.Server
}

// New builds a fully wired container from the given configuration.
func New(cfg *config.Config) (*Container, error) {
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(os.DirFS(cfg.Database.MigrationsDir)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	txDB := sqlite.NewDB(db.DB, logger)
	userRepo := repository.NewUserRepository(txDB, logger)
	expenseRepo := repository.NewExpenseRepository(txDB, logger)

	converter := workflow.NewConverter(cfg.Approval.ReferenceCurrency, cfg.Approval.Rates)
	chains := workflow.NewChainBuilder(cfg.Approval.TopAdminID)
	machine := workflow.NewMachine(decimal.NewFromFloat(cfg.Approval.AutoApproveThreshold))

	serviceLogger := &zapLoggerAdapter{logger: logger}

	expenseService := service.NewExpenseService(
		userRepo,
		expenseRepo,
		txDB,
		converter,
		chains,
		machine,
		serviceLogger,
	)
	userService := service.NewUserService(
		userRepo,
		[]byte(cfg.Auth.SigningKey),
		cfg.Auth.TokenTTL,
		serviceLogger,
	)
	reportService := service.NewReportService(expenseService, serviceLogger)

	server := httpapi.NewServer(
		httpapi.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		expenseService,
		userService,
		reportService,
		serviceLogger,
	)

	return &Container{
		config: cfg,
		logger: logger,
		db:     db,
		txDB:   txDB,
		repositories: &RepositoryBundle{
			User:    userRepo,
			Expense: expenseRepo,
		},
		services: &ServiceBundle{
			Expense: expenseService,
			User:    userService,
			Report:  reportService,
		},
		server: server,
	}, nil
}

// Server returns the wired HTTP server.
func (c *Container) Server() *httpapi.Server {
	return c.server
}

// Repositories returns the persistence layer repositories.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// Services returns the application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Close releases resources in reverse initialization order.
func (c *Container) Close() error {
	var firstErr error
	if err := c.db.Close(); err != nil {
		firstErr = err
	}
	_ = c.logger.Sync()
	return firstErr
}

// zapLoggerAdapter adapts zap.Logger to the service.Logger interface.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
