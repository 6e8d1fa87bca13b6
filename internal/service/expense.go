package service

import (
	"context"
	"strings"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"go.uber.org/zap"
)

// ExpenseRepository is the storage the expense service needs
type ExpenseRepository interface {
	FindAll(ctx context.Context) ([]model.Expense, error)
	FindByID(ctx context.Context, id uint) (*model.Expense, error)
	Create(ctx context.Context, expense *model.Expense) error
	Save(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uint) error
}

// ExpenseService records operating expenses
type ExpenseService struct {
	repo      ExpenseRepository
	employees EmployeeFinder
	today     Clock
}

func NewExpenseService(repo ExpenseRepository, employees EmployeeFinder) *ExpenseService {
	return &ExpenseService{repo: repo, employees: employees, today: model.Today}
}

func (s *ExpenseService) List(ctx context.Context) ([]model.Expense, error) {
	return s.repo.FindAll(ctx)
}

func (s *ExpenseService) Get(ctx context.Context, id uint) (*model.Expense, error) {
	return s.repo.FindByID(ctx, id)
}

// Create records an expense dated today unless a date is given
func (s *ExpenseService) Create(ctx context.Context, expense *model.Expense) (*model.Expense, error) {
	if err := s.validate(ctx, expense); err != nil {
		return nil, err
	}
	expense.ID = 0
	if expense.ExpenseDate.IsZero() {
		expense.ExpenseDate = s.today()
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("expense", "create")
	logger.FromContext(ctx).Info("Expense recorded",
		zap.Uint("expense_id", expense.ID),
		zap.Uint("employee_id", expense.EmployeeID),
		zap.String("amount", expense.Amount.StringFixed(2)))
	return expense, nil
}

func (s *ExpenseService) Update(ctx context.Context, id uint, changes *model.Expense) (*model.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, changes); err != nil {
		return nil, err
	}
	expense.EmployeeID = changes.EmployeeID
	expense.Description = changes.Description
	expense.Amount = changes.Amount
	if !changes.ExpenseDate.IsZero() {
		expense.ExpenseDate = changes.ExpenseDate
	}
	if err := s.repo.Save(ctx, expense); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("expense", "update")
	logger.FromContext(ctx).Info("Expense updated", zap.Uint("expense_id", id))
	return expense, nil
}

// Delete removes the expense for good
func (s *ExpenseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	prometheus.RecordOperation("expense", "delete")
	logger.FromContext(ctx).Info("Expense deleted", zap.Uint("expense_id", id))
	return nil
}

func (s *ExpenseService) validate(ctx context.Context, expense *model.Expense) error {
	fields := map[string]string{}
	if strings.TrimSpace(expense.Description) == "" {
		fields["description"] = "is required"
	}
	if !expense.Amount.IsPositive() {
		fields["amount"] = "must be greater than 0"
	}
	if len(fields) > 0 {
		return apperror.Validation("invalid expense", fields)
	}
	_, err := s.employees.FindByID(ctx, expense.EmployeeID)
	return err
}
