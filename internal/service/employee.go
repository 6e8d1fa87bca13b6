package service

import (
	"context"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmployeeRepository is the storage the employee service needs
type EmployeeRepository interface {
	FindAll(ctx context.Context) ([]model.Employee, error)
	FindByID(ctx context.Context, id uint) (*model.Employee, error)
	FindByStatus(ctx context.Context, status string) ([]model.Employee, error)
	Search(ctx context.Context, term, status string) ([]model.Employee, error)
	Create(ctx context.Context, employee *model.Employee) error
	Save(ctx context.Context, employee *model.Employee) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SalaryTotals(ctx context.Context, status string) (decimal.Decimal, int64, error)
	CountByPosition(ctx context.Context) ([]model.PositionSummary, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
	ExistsByDocument(ctx context.Context, document string, excludeID uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	LatestCode(ctx context.Context) (string, error)
}

// EmployeeService manages staff
type EmployeeService struct {
	repo  EmployeeRepository
	today Clock
}

// NewEmployeeService creates the employee service
func NewEmployeeService(repo EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo, today: model.Today}
}

func (s *EmployeeService) List(ctx context.Context) ([]model.Employee, error) {
	return s.repo.FindAll(ctx)
}

func (s *EmployeeService) Get(ctx context.Context, id uint) (*model.Employee, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmployeeService) ListByStatus(ctx context.Context, status string) ([]model.Employee, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *EmployeeService) Search(ctx context.Context, term, status string) ([]model.Employee, error) {
	return s.repo.Search(ctx, term, defaultString(status, model.StatusActive))
}

// Create hires an employee, issuing the next employee code when none is given
func (s *EmployeeService) Create(ctx context.Context, employee *model.Employee) (*model.Employee, error) {
	log := logger.FromContext(ctx)

	if employee.EmployeeCode == "" {
		code, err := s.NextCode(ctx)
		if err != nil {
			return nil, err
		}
		employee.EmployeeCode = code
	}
	if err := requireNonNegative("salary", employee.Salary); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, employee, 0); err != nil {
		log.Warn("Employee already exists", zap.String("employee_code", employee.EmployeeCode), zap.Error(err))
		return nil, err
	}

	employee.ID = 0
	if employee.HireDate.IsZero() {
		employee.HireDate = s.today()
	}
	employee.Status = defaultString(employee.Status, model.StatusActive)

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("employee", "create")
	log.Info("Employee created",
		zap.Uint("employee_id", employee.ID),
		zap.String("employee_code", employee.EmployeeCode))
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, id uint, changes *model.Employee) (*model.Employee, error) {
	log := logger.FromContext(ctx)

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes.EmployeeCode == "" {
		changes.EmployeeCode = employee.EmployeeCode
	}
	if err := requireNonNegative("salary", changes.Salary); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, changes, id); err != nil {
		log.Warn("Employee update conflicts with another employee", zap.Uint("employee_id", id), zap.Error(err))
		return nil, err
	}

	employee.EmployeeCode = changes.EmployeeCode
	employee.DocumentType = changes.DocumentType
	employee.DocumentNumber = changes.DocumentNumber
	employee.Name = changes.Name
	employee.Surname = changes.Surname
	if !changes.HireDate.IsZero() {
		employee.HireDate = changes.HireDate
	}
	employee.Phone = changes.Phone
	employee.LocationID = changes.LocationID
	employee.Salary = changes.Salary
	employee.Email = changes.Email
	employee.PositionID = changes.PositionID
	employee.Status = defaultString(changes.Status, employee.Status)

	if err := s.repo.Save(ctx, employee); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("employee", "update")
	log.Info("Employee updated", zap.Uint("employee_id", id))
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id uint) (*model.Employee, error) {
	return s.setStatus(ctx, id, model.StatusInactive, "delete")
}

func (s *EmployeeService) Restore(ctx context.Context, id uint) (*model.Employee, error) {
	return s.setStatus(ctx, id, model.StatusActive, "restore")
}

func (s *EmployeeService) setStatus(ctx context.Context, id uint, status, operation string) (*model.Employee, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("employee", operation)
	logger.FromContext(ctx).Info("Employee status changed", zap.Uint("employee_id", id), zap.String("status", status))
	return s.repo.FindByID(ctx, id)
}

// Summary counts employees and averages the salary of active ones
func (s *EmployeeService) Summary(ctx context.Context) (*model.EmployeeSummary, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	salaries, active, err := s.repo.SalaryTotals(ctx, model.StatusActive)
	if err != nil {
		return nil, err
	}
	return &model.EmployeeSummary{
		Total:         sumCounts(counts),
		Active:        counts[model.StatusActive],
		Inactive:      counts[model.StatusInactive],
		AverageSalary: average(salaries, active),
	}, nil
}

// PositionSummary lists active positions with their active employee counts
func (s *EmployeeService) PositionSummary(ctx context.Context) ([]model.PositionSummary, error) {
	return s.repo.CountByPosition(ctx)
}

func (s *EmployeeService) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.repo.ExistsByCode(ctx, code, 0)
}

func (s *EmployeeService) ExistsByDocument(ctx context.Context, document string) (bool, error) {
	return s.repo.ExistsByDocument(ctx, document, 0)
}

func (s *EmployeeService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, email, 0)
}

// NextCode returns the employee code that follows the latest issued one
func (s *EmployeeService) NextCode(ctx context.Context) (string, error) {
	latest, err := s.repo.LatestCode(ctx)
	if err != nil {
		return "", err
	}
	return NextCode(EmployeeCodePrefix, latest), nil
}

func (s *EmployeeService) checkUnique(ctx context.Context, e *model.Employee, excludeID uint) error {
	return ensureUnique(ctx, excludeID,
		uniqueCheck{e.EmployeeCode, s.repo.ExistsByCode, "employee with code %s already exists"},
		uniqueCheck{e.DocumentNumber, s.repo.ExistsByDocument, "employee with document number %s already exists"},
		uniqueCheck{e.Email, s.repo.ExistsByEmail, "employee with email %s already exists"},
	)
}
