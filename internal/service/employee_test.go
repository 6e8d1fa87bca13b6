package service

import (
	"context"
	"testing"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmployees answers the summary queries; other calls panic on the nil interface
type stubEmployees struct {
	EmployeeRepository
	counts      map[string]int64
	salaries    decimal.Decimal
	activeCount int64
	created     *model.Employee
	latest      string
}

func (s *stubEmployees) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return s.counts, nil
}

func (s *stubEmployees) SalaryTotals(ctx context.Context, status string) (decimal.Decimal, int64, error) {
	return s.salaries, s.activeCount, nil
}

func (s *stubEmployees) LatestCode(ctx context.Context) (string, error) {
	return s.latest, nil
}

func (s *stubEmployees) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	return false, nil
}

func (s *stubEmployees) ExistsByDocument(ctx context.Context, document string, excludeID uint) (bool, error) {
	return false, nil
}

func (s *stubEmployees) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return email == "taken@shop.pe", nil
}

func (s *stubEmployees) Create(ctx context.Context, e *model.Employee) error {
	e.ID = 1
	s.created = e
	return nil
}

func TestEmployeeSummaryAveragesActiveSalaries(t *testing.T) {
	repo := &stubEmployees{
		counts:      map[string]int64{model.StatusActive: 3, model.StatusInactive: 1},
		salaries:    decimal.RequireFromString("4000.00"),
		activeCount: 3,
	}
	summary, err := NewEmployeeService(repo).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.Total)
	assert.Equal(t, int64(3), summary.Active)
	assert.Equal(t, int64(1), summary.Inactive)
	assertMoney(t, "1333.33", summary.AverageSalary)
}

func TestEmployeeSummaryWithoutActiveEmployees(t *testing.T) {
	repo := &stubEmployees{counts: map[string]int64{}, salaries: decimal.Zero}
	summary, err := NewEmployeeService(repo).Summary(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.AverageSalary.IsZero())
	assert.Equal(t, int64(0), summary.Total)
}

func TestCreateEmployee(t *testing.T) {
	repo := &stubEmployees{latest: "E041"}
	svc := NewEmployeeService(repo)
	svc.today = fixedClock

	created, err := svc.Create(context.Background(), &model.Employee{Name: "Rosa", Email: "rosa@shop.pe", Salary: money("1500.00")})
	require.NoError(t, err)
	assert.Equal(t, "E042", created.EmployeeCode)
	assert.Equal(t, fixedToday, created.HireDate)
	assert.Same(t, created, repo.created)

	_, err = svc.Create(context.Background(), &model.Employee{Email: "taken@shop.pe"})
	assert.True(t, apperror.IsConflict(err))

	_, err = svc.Create(context.Background(), &model.Employee{Email: "new@shop.pe", Salary: money("-1")})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}
