package service

import (
	"context"
	"fmt"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Transactor runs fn inside one database transaction carried by ctx
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SaleRepository is the storage the sale service needs
type SaleRepository interface {
	FindAll(ctx context.Context) ([]model.Sale, error)
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	FindByStatus(ctx context.Context, status string) ([]model.Sale, error)
	FindByCode(ctx context.Context, code string) (*model.Sale, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]model.Sale, error)
	FindByEmployee(ctx context.Context, employeeID uint) ([]model.Sale, error)
	FindByPaymentMethod(ctx context.Context, method string) ([]model.Sale, error)
	Search(ctx context.Context, term, status string) ([]model.Sale, error)
	Create(ctx context.Context, sale *model.Sale) error
	Update(ctx context.Context, sale *model.Sale) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SumTotal(ctx context.Context, status string, on *model.Date) (decimal.Decimal, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
	LatestCode(ctx context.Context) (string, error)
}

// CustomerFinder resolves the customer of a sale
type CustomerFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
}

// EmployeeFinder resolves the employee of a sale
type EmployeeFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Employee, error)
}

// SaleLineInput is one requested sale line
type SaleLineInput struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gt=0"`
}

// SaleInput is the body of a sale create or update
type SaleInput struct {
	SaleCode      string          `json:"sale_code" validate:"omitempty,max=20"`
	CustomerID    uint            `json:"customer_id" validate:"required"`
	EmployeeID    uint            `json:"employee_id" validate:"required"`
	SaleDate      model.Date      `json:"sale_date"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=50"`
	Status        string          `json:"status" validate:"omitempty,oneof=Completado Pendiente"`
	Details       []SaleLineInput `json:"details" validate:"required,min=1,dive"`
}

// Validate checks the input before any stock is touched
func (in SaleInput) Validate() error {
	fields := map[string]string{}
	if in.CustomerID == 0 {
		fields["customer_id"] = "is required"
	}
	if in.EmployeeID == 0 {
		fields["employee_id"] = "is required"
	}
	if in.PaymentMethod == "" {
		fields["payment_method"] = "is required"
	}
	if in.Status != "" && in.Status != model.SaleCompleted && in.Status != model.SalePending {
		fields["status"] = "must be one of Completado Pendiente"
	}
	if len(in.Details) == 0 {
		fields["details"] = "must contain at least one line"
	}
	for i, line := range in.Details {
		if line.ProductID == 0 {
			fields[fmt.Sprintf("details[%d].product_id", i)] = "is required"
		}
		if line.Quantity < 1 {
			fields[fmt.Sprintf("details[%d].quantity", i)] = "must be at least 1"
		}
		if !line.UnitPrice.IsPositive() {
			fields[fmt.Sprintf("details[%d].unit_price", i)] = "must be greater than 0"
		}
	}
	if len(fields) > 0 {
		return apperror.Validation("invalid sale", fields)
	}
	return nil
}

// SaleService runs the sale workflows; every stock movement and the sale write share one transaction
type SaleService struct {
	repo      SaleRepository
	customers CustomerFinder
	employees EmployeeFinder
	stock     StockLedger
	tx        Transactor
	today     Clock
}

// NewSaleService creates the sale service
func NewSaleService(repo SaleRepository, customers CustomerFinder, employees EmployeeFinder, stock StockLedger, tx Transactor) *SaleService {
	return &SaleService{
		repo:      repo,
		customers: customers,
		employees: employees,
		stock:     stock,
		tx:        tx,
		today:     model.Today,
	}
}

func (s *SaleService) List(ctx context.Context) ([]model.Sale, error) {
	return s.repo.FindAll(ctx)
}

func (s *SaleService) Get(ctx context.Context, id uint) (*model.Sale, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SaleService) GetByCode(ctx context.Context, code string) (*model.Sale, error) {
	return s.repo.FindByCode(ctx, code)
}

func (s *SaleService) ListByStatus(ctx context.Context, status string) ([]model.Sale, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *SaleService) ListByCustomer(ctx context.Context, customerID uint) ([]model.Sale, error) {
	return s.repo.FindByCustomer(ctx, customerID)
}

func (s *SaleService) ListByEmployee(ctx context.Context, employeeID uint) ([]model.Sale, error) {
	return s.repo.FindByEmployee(ctx, employeeID)
}

func (s *SaleService) ListByPaymentMethod(ctx context.Context, method string) ([]model.Sale, error) {
	return s.repo.FindByPaymentMethod(ctx, method)
}

// Search matches sale code, payment method and customer name; status defaults to completed
func (s *SaleService) Search(ctx context.Context, term, status string) ([]model.Sale, error) {
	return s.repo.Search(ctx, term, defaultString(status, model.SaleCompleted))
}

// Create records a sale, taking each line's quantity out of the product stock
func (s *SaleService) Create(ctx context.Context, input SaleInput) (*model.Sale, error) {
	log := logger.FromContext(ctx)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var sale *model.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		code, err := s.saleCode(ctx, input.SaleCode)
		if err != nil {
			return err
		}
		if err := s.resolveParties(ctx, input); err != nil {
			return err
		}

		sale = &model.Sale{SaleCode: code}
		s.applyHeader(sale, input, model.SaleCompleted)
		if err := s.attachLines(ctx, sale, input.Details); err != nil {
			return err
		}
		return s.repo.Create(ctx, sale)
	})
	if err != nil {
		log.Warn("Sale creation failed", zap.Uint("customer_id", input.CustomerID), zap.Error(err))
		return nil, err
	}

	prometheus.RecordOperation("sale", "create")
	prometheus.RecordSaleAmount(sale.Status, sale.Total.InexactFloat64())
	log.Info("Sale created",
		zap.Uint("sale_id", sale.ID),
		zap.String("sale_code", sale.SaleCode),
		zap.Int("lines", len(sale.Details)),
		zap.String("total", sale.Total.StringFixed(2)))
	return sale, nil
}

// Update puts the stock of the current lines back, then rebuilds the line set from input
func (s *SaleService) Update(ctx context.Context, id uint, input SaleInput) (*model.Sale, error) {
	log := logger.FromContext(ctx)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var sale *model.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if input.SaleCode != "" && input.SaleCode != sale.SaleCode {
			if err := ensureUnique(ctx, id,
				uniqueCheck{input.SaleCode, s.repo.ExistsByCode, "sale with code %s already exists"},
			); err != nil {
				return err
			}
			sale.SaleCode = input.SaleCode
		}
		if err := s.resolveParties(ctx, input); err != nil {
			return err
		}

		for _, line := range sale.Details {
			if _, err := s.stock.AddStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		sale.ClearDetails()

		s.applyHeader(sale, input, sale.Status)
		if err := s.attachLines(ctx, sale, input.Details); err != nil {
			return err
		}
		return s.repo.Update(ctx, sale)
	})
	if err != nil {
		log.Warn("Sale update failed", zap.Uint("sale_id", id), zap.Error(err))
		return nil, err
	}

	prometheus.RecordOperation("sale", "update")
	log.Info("Sale updated",
		zap.Uint("sale_id", id),
		zap.Int("lines", len(sale.Details)),
		zap.String("total", sale.Total.StringFixed(2)))
	return sale, nil
}

// RemoveLine drops one line from a sale, puts its quantity back into stock and recomputes the total.
// A sale keeps at least one line, and lines of a cancelled sale are left alone since their stock is already back.
func (s *SaleService) RemoveLine(ctx context.Context, saleID, lineID uint) (*model.Sale, error) {
	log := logger.FromContext(ctx)

	var sale *model.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.repo.FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.Status == model.SaleCancelled {
			return apperror.Conflict("sale %d is cancelled", saleID)
		}
		index := -1
		for i, line := range sale.Details {
			if line.ID == lineID {
				index = i
				break
			}
		}
		if index < 0 {
			return apperror.NotFound("line %d not found in sale %d", lineID, saleID)
		}
		if len(sale.Details) == 1 {
			return apperror.Validation("invalid sale", map[string]string{"details": "must contain at least one line"})
		}

		line := sale.Details[index]
		if _, err := s.stock.AddStock(ctx, line.ProductID, line.Quantity); err != nil {
			return err
		}
		sale.RemoveDetail(index)
		return s.repo.Update(ctx, sale)
	})
	if err != nil {
		log.Warn("Sale line removal failed", zap.Uint("sale_id", saleID), zap.Uint("line_id", lineID), zap.Error(err))
		return nil, err
	}

	prometheus.RecordOperation("sale", "remove_line")
	log.Info("Sale line removed",
		zap.Uint("sale_id", saleID),
		zap.Uint("line_id", lineID),
		zap.String("total", sale.Total.StringFixed(2)))
	return sale, nil
}

// Delete puts every line's quantity back into stock and cancels the sale.
// The current status is not checked, so cancelling twice returns the stock twice.
func (s *SaleService) Delete(ctx context.Context, id uint) (*model.Sale, error) {
	return s.transition(ctx, id, model.SaleCancelled, "delete", s.stock.AddStock)
}

// Restore takes every line's quantity out of stock again and completes the sale.
// The current status is not checked.
func (s *SaleService) Restore(ctx context.Context, id uint) (*model.Sale, error) {
	return s.transition(ctx, id, model.SaleCompleted, "restore", s.stock.ReduceStock)
}

func (s *SaleService) transition(ctx context.Context, id uint, status, operation string,
	move func(ctx context.Context, productID uint, quantity int) (*model.Product, error)) (*model.Sale, error) {
	log := logger.FromContext(ctx)

	var sale *model.Sale
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		for _, line := range sale.Details {
			if _, err := move(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		sale.Status = status
		return nil
	})
	if err != nil {
		log.Warn("Sale status change failed", zap.Uint("sale_id", id), zap.String("status", status), zap.Error(err))
		return nil, err
	}

	prometheus.RecordOperation("sale", operation)
	prometheus.RecordSaleAmount(status, sale.Total.InexactFloat64())
	log.Info("Sale status changed", zap.Uint("sale_id", id), zap.String("status", status))
	return sale, nil
}

// Summary totals completed sales overall and for today, and counts completed and pending sales
func (s *SaleService) Summary(ctx context.Context) (*model.SaleSummary, error) {
	total, err := s.repo.SumTotal(ctx, model.SaleCompleted, nil)
	if err != nil {
		return nil, err
	}
	today := s.today()
	todayTotal, err := s.repo.SumTotal(ctx, model.SaleCompleted, &today)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &model.SaleSummary{
		TotalSales: total,
		TodaySales: todayTotal,
		Completed:  counts[model.SaleCompleted],
		Pending:    counts[model.SalePending],
	}, nil
}

func (s *SaleService) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.repo.ExistsByCode(ctx, code, 0)
}

// NextCode returns the sale code that follows the latest issued one
func (s *SaleService) NextCode(ctx context.Context) (string, error) {
	latest, err := s.repo.LatestCode(ctx)
	if err != nil {
		return "", err
	}
	return NextCode(SaleCodePrefix, latest), nil
}

func (s *SaleService) saleCode(ctx context.Context, requested string) (string, error) {
	if requested == "" {
		return s.NextCode(ctx)
	}
	err := ensureUnique(ctx, 0, uniqueCheck{requested, s.repo.ExistsByCode, "sale with code %s already exists"})
	return requested, err
}

func (s *SaleService) resolveParties(ctx context.Context, input SaleInput) error {
	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		return err
	}
	_, err := s.employees.FindByID(ctx, input.EmployeeID)
	return err
}

func (s *SaleService) applyHeader(sale *model.Sale, input SaleInput, fallbackStatus string) {
	sale.CustomerID = input.CustomerID
	sale.EmployeeID = input.EmployeeID
	sale.PaymentMethod = input.PaymentMethod
	if !input.SaleDate.IsZero() {
		sale.SaleDate = input.SaleDate
	}
	if sale.SaleDate.IsZero() {
		sale.SaleDate = s.today()
	}
	sale.Status = defaultString(input.Status, fallbackStatus)
}

// attachLines reduces stock for each requested line and adds it to the sale
func (s *SaleService) attachLines(ctx context.Context, sale *model.Sale, lines []SaleLineInput) error {
	for _, line := range lines {
		if _, err := s.stock.ReduceStock(ctx, line.ProductID, line.Quantity); err != nil {
			return err
		}
		sale.AddDetail(model.NewSaleDetail(line.ProductID, line.Quantity, line.UnitPrice))
	}
	return nil
}
