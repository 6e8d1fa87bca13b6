package repository

import (
	"context"
	"time"

	"backoffice-service/internal/model"
	"backoffice-service/prometheus"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EmployeeRepository persists employees
type EmployeeRepository struct {
	store[model.Employee]
}

// NewEmployeeRepository creates the employee repository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{store[model.Employee]{db: db, entity: "employee"}}
}

// Search matches code, names, document number and email
func (r *EmployeeRepository) Search(ctx context.Context, term, status string) ([]model.Employee, error) {
	return r.search(ctx, []string{"employee_code", "name", "surname", "document_number", "email"}, term, status)
}

// ExistsByCode reports whether another employee uses code
func (r *EmployeeRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	return r.exists(ctx, "employee_code", code, excludeID)
}

// ExistsByDocument reports whether another employee uses the document number
func (r *EmployeeRepository) ExistsByDocument(ctx context.Context, document string, excludeID uint) (bool, error) {
	return r.exists(ctx, "document_number", document, excludeID)
}

// ExistsByEmail reports whether another employee uses email
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

// LatestCode returns the most recently issued employee code
func (r *EmployeeRepository) LatestCode(ctx context.Context) (string, error) {
	return r.latestCode(ctx, "employee_code")
}

// SalaryTotals returns the salary sum and headcount of employees with the given status
func (r *EmployeeRepository) SalaryTotals(ctx context.Context, status string) (decimal.Decimal, int64, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var row struct {
		Total decimal.NullDecimal
		Count int64
	}
	err := r.raw(ctx).Model(&model.Employee{}).
		Select("SUM(salary) AS total, COUNT(*) AS count").
		Where("status = ?", status).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, errors.Wrap(err, "sum employee salaries")
	}
	return row.Total.Decimal, row.Count, nil
}

// CountByPosition returns active employee counts for every active position
func (r *EmployeeRepository) CountByPosition(ctx context.Context) ([]model.PositionSummary, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var rows []model.PositionSummary
	err := r.raw(ctx).Model(&model.Position{}).
		Select("positions.id AS position_id, positions.name AS name, COUNT(employees.id) AS employees").
		Joins("LEFT JOIN employees ON employees.position_id = positions.id AND employees.status = ?", model.StatusActive).
		Where("positions.status = ?", model.StatusActive).
		Group("positions.id, positions.name").
		Order("positions.id").
		Scan(&rows).Error
	return rows, errors.Wrap(err, "count employees by position")
}
