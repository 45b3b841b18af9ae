package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/expenseflow/expenseflow/internal/application/service"
	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/expenseflow/expenseflow/internal/domain/workflow"
	"github.com/expenseflow/expenseflow/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	expenseService service.ExpenseService
	userService    service.UserService
	reportService  service.ReportService
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	expenseService service.ExpenseService,
	userService service.UserService,
	reportService service.ReportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		expenseService: expenseService,
		userService:    userService,
		reportService:  reportService,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the authenticated user and their session token
type LoginResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// SubmitExpenseRequest represents the expense submission payload
type SubmitExpenseRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date" binding:"required"`
}

// DecideExpenseRequest represents the approval decision payload
type DecideExpenseRequest struct {
	Action  string `json:"action" binding:"required"`
	Comment string `json:"comment"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// Login handles POST /login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid email format"})
		return
	}

	user, token, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid credentials"})
			return
		}
		h.logger.Error("Login failed", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "login failed"})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    LoginResponse{User: user, Token: token},
	})
}

// ListUsers handles GET /users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve users"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: users})
}

// SubmitExpense handles POST /expenses
func (h *Handlers) SubmitExpense(c *gin.Context) {
	var req SubmitExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "date must be formatted YYYY-MM-DD"})
		return
	}

	expense, err := h.expenseService.Submit(c.Request.Context(), actorID(c), service.SubmitExpenseInput{
		Amount:      decimal.NewFromFloat(req.Amount),
		Currency:    req.Currency,
		Category:    req.Category,
		Description: utils.SanitizeString(req.Description),
		Date:        date,
	})
	if err != nil {
		h.respondError(c, err, "failed to submit expense")
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: expense})
}

// ListExpenses handles GET /expenses
func (h *Handlers) ListExpenses(c *gin.Context) {
	expenses, err := h.expenseService.ListVisible(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err, "failed to retrieve expenses")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expenses})
}

// DecideExpense handles PUT /expenses/:id/approve
func (h *Handlers) DecideExpense(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid expense id"})
		return
	}

	var req DecideExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	expense, err := h.expenseService.Decide(
		c.Request.Context(),
		id,
		actorID(c),
		entity.DecisionAction(req.Action),
		utils.SanitizeString(req.Comment),
	)
	if err != nil {
		h.respondError(c, err, "failed to record decision")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: expense})
}

// ExportExpenses handles GET /expenses/export
func (h *Handlers) ExportExpenses(c *gin.Context) {
	data, err := h.reportService.ExportVisible(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err, "failed to export expenses")
		return
	}

	filename := fmt.Sprintf("expenses-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(
		http.StatusOK,
		int64(len(data)),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		bytes.NewReader(data),
		nil,
	)
}

// respondError maps service and workflow errors onto HTTP statuses:
// validation 400, authorization 403, not-found 404, anything else 500.
func (h *Handlers) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case workflow.IsValidation(err):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case workflow.IsAuthorization(err):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrExpenseNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}
