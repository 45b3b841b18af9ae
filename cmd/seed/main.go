// Command seed populates a fresh database with the demo organization:
// one admin, one manager and two employees, plus a couple of expenses
// submitted through the regular workflow.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/expenseflow/expenseflow/internal/application/service"
	"github.com/expenseflow/expenseflow/internal/config"
	"github.com/expenseflow/expenseflow/internal/container"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
)

const demoPassword = "password123"

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	c, err := container.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := run(context.Background(), c); err != nil {
		c.Logger().Fatal("Seeding failed", zap.Error(err))
	}
}

func run(ctx context.Context, c *container.Container) error {
	logger := c.Logger()
	users := c.Repositories().User

	existing, err := users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("Database already seeded, skipping", zap.Int("users", len(existing)))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	logger.Info("Seeding demo users")

	// Insertion order fixes the IDs: the admin gets id 1 and so matches
	// the default top_admin_id, the manager gets id 2.
	managerOf := func(id int64) *int64 { return &id }
	demoUsers := []*entity.User{
		{Name: "John Admin", Email: "admin@expenseflow.com", Role: entity.RoleAdmin, Status: entity.UserStatusActive},
		{Name: "Sarah Manager", Email: "sarah@expenseflow.com", Role: entity.RoleManager, ManagerID: managerOf(1), Status: entity.UserStatusActive},
		{Name: "Mike Employee", Email: "mike@expenseflow.com", Role: entity.RoleEmployee, ManagerID: managerOf(2), Status: entity.UserStatusActive},
		{Name: "Lisa Employee", Email: "lisa@expenseflow.com", Role: entity.RoleEmployee, ManagerID: managerOf(2), Status: entity.UserStatusActive},
	}
	for _, u := range demoUsers {
		u.PasswordHash = string(hash)
		u.CreatedAt = time.Now().UTC()
		if err := users.Create(ctx, u); err != nil {
			return err
		}
	}

	logger.Info("Seeding demo expenses")

	expenses := []struct {
		employeeID int64
		input      service.SubmitExpenseInput
	}{
		{3, service.SubmitExpenseInput{
			Amount:      decimal.NewFromFloat(150.00),
			Currency:    "USD",
			Category:    "Travel",
			Description: "Client meeting travel",
			Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}},
		{4, service.SubmitExpenseInput{
			Amount:      decimal.NewFromFloat(250.00),
			Currency:    "EUR",
			Category:    "Travel",
			Description: "Business trip to Paris",
			Date:        time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		}},
	}
	for _, e := range expenses {
		if _, err := c.Services().Expense.Submit(ctx, e.employeeID, e.input); err != nil {
			return err
		}
	}

	logger.Info("Database seeding complete")
	return nil
}
