package service

import (
	"context"
	"fmt"

	"github.com/expenseflow/expenseflow/internal/domain/entity"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Expenses"

// ReportService produces spreadsheet exports of expense data
type ReportService interface {
	// ExportVisible renders the viewer-visible expense set as an xlsx workbook
	ExportVisible(ctx context.Context, viewerID int64) ([]byte, error)
}

type reportServiceImpl struct {
	expenses ExpenseService
	logger   Logger
}

// NewReportService creates a new ReportService
func NewReportService(expenses ExpenseService, logger Logger) ReportService {
	return &reportServiceImpl{
		expenses: expenses,
		logger:   logger,
	}
}

// ExportVisible renders the viewer-visible expense set as an xlsx workbook.
// Visibility rules are identical to the listing endpoint.
func (s *reportServiceImpl) ExportVisible(ctx context.Context, viewerID int64) ([]byte, error) {
	expenses, err := s.expenses.ListVisible(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{
		"ID", "Employee ID", "Amount", "Currency", "Converted Amount",
		"Category", "Description", "Date", "Status", "Current Approver",
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(reportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header: %w", err)
		}
	}

	for row, e := range expenses {
		values := []interface{}{
			e.ID,
			e.EmployeeID,
			e.Amount.String(),
			e.Currency,
			e.ConvertedAmount.String(),
			e.Category,
			e.Description,
			e.Date.Format("2006-01-02"),
			e.Status.String(),
			formatApprover(e),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(reportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("Failed to render expense report", "error", err, "viewer_id", viewerID)
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("Expense report exported", "viewer_id", viewerID, "rows", len(expenses))
	return buf.Bytes(), nil
}

func formatApprover(e *entity.Expense) string {
	if e.CurrentApproverID == nil {
		return ""
	}
	return fmt.Sprintf("%d", *e.CurrentApproverID)
}
