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

// PurchaseRepository is the storage the purchase service needs
type PurchaseRepository interface {
	FindAll(ctx context.Context) ([]model.Purchase, error)
	FindByID(ctx context.Context, id uint) (*model.Purchase, error)
	FindByStatus(ctx context.Context, status string) ([]model.Purchase, error)
	FindBySupplier(ctx context.Context, supplierID uint) ([]model.Purchase, error)
	Search(ctx context.Context, term, status string) ([]model.Purchase, error)
	Create(ctx context.Context, purchase *model.Purchase) error
	Update(ctx context.Context, purchase *model.Purchase) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	SumTotal(ctx context.Context, status string, since *model.Date) (decimal.Decimal, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
	LatestCode(ctx context.Context) (string, error)
}

// SupplierFinder resolves the supplier of a purchase
type SupplierFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Supplier, error)
}

// ProductFinder resolves the products bought in a purchase
type ProductFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Product, error)
}

// PurchaseLineInput is one requested purchase line
type PurchaseLineInput struct {
	ProductID uint            `json:"product_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost" validate:"gt=0"`
}

// PurchaseInput is the body of a purchase create or update
type PurchaseInput struct {
	PurchaseCode string              `json:"purchase_code" validate:"omitempty,max=20"`
	SupplierID   uint                `json:"supplier_id" validate:"required"`
	PurchaseDate model.Date          `json:"purchase_date"`
	PaymentType  string              `json:"payment_type" validate:"required,max=50"`
	Status       string              `json:"status" validate:"omitempty,oneof=A I"`
	Details      []PurchaseLineInput `json:"details" validate:"required,min=1,dive"`
}

// Validate checks the input before anything is written
func (in PurchaseInput) Validate() error {
	fields := map[string]string{}
	if in.SupplierID == 0 {
		fields["supplier_id"] = "is required"
	}
	if in.PaymentType == "" {
		fields["payment_type"] = "is required"
	}
	if in.Status != "" && !model.IsOneOf(in.Status, model.RecordStatuses()) {
		fields["status"] = "must be one of A I"
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
		if !line.UnitCost.IsPositive() {
			fields[fmt.Sprintf("details[%d].unit_cost", i)] = "must be greater than 0"
		}
	}
	if len(fields) > 0 {
		return apperror.Validation("invalid purchase", fields)
	}
	return nil
}

// PurchaseService records purchases to suppliers; purchases do not move product stock
type PurchaseService struct {
	repo      PurchaseRepository
	suppliers SupplierFinder
	products  ProductFinder
	tx        Transactor
	today     Clock
}

// NewPurchaseService creates the purchase service
func NewPurchaseService(repo PurchaseRepository, suppliers SupplierFinder, products ProductFinder, tx Transactor) *PurchaseService {
	return &PurchaseService{repo: repo, suppliers: suppliers, products: products, tx: tx, today: model.Today}
}

func (s *PurchaseService) List(ctx context.Context) ([]model.Purchase, error) {
	return s.repo.FindAll(ctx)
}

func (s *PurchaseService) Get(ctx context.Context, id uint) (*model.Purchase, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PurchaseService) ListByStatus(ctx context.Context, status string) ([]model.Purchase, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *PurchaseService) ListBySupplier(ctx context.Context, supplierID uint) ([]model.Purchase, error) {
	return s.repo.FindBySupplier(ctx, supplierID)
}

func (s *PurchaseService) Search(ctx context.Context, term, status string) ([]model.Purchase, error) {
	return s.repo.Search(ctx, term, defaultString(status, model.StatusActive))
}

func (s *PurchaseService) Create(ctx context.Context, input PurchaseInput) (*model.Purchase, error) {
	log := logger.FromContext(ctx)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var purchase *model.Purchase
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		code := input.PurchaseCode
		if code == "" {
			next, err := s.NextCode(ctx)
			if err != nil {
				return err
			}
			code = next
		} else if err := ensureUnique(ctx, 0,
			uniqueCheck{code, s.repo.ExistsByCode, "purchase with code %s already exists"},
		); err != nil {
			return err
		}

		purchase = &model.Purchase{PurchaseCode: code, Status: model.StatusActive}
		if err := s.build(ctx, purchase, input); err != nil {
			return err
		}
		return s.repo.Create(ctx, purchase)
	})
	if err != nil {
		log.Warn("Purchase creation failed", zap.Uint("supplier_id", input.SupplierID), zap.Error(err))
		return nil, err
	}

	prometheus.RecordOperation("purchase", "create")
	log.Info("Purchase created",
		zap.Uint("purchase_id", purchase.ID),
		zap.String("purchase_code", purchase.PurchaseCode),
		zap.String("total_amount", purchase.TotalAmount.StringFixed(2)))
	return purchase, nil
}

// Update replaces the header fields and the whole line set
func (s *PurchaseService) Update(ctx context.Context, id uint, input PurchaseInput) (*model.Purchase, error) {
	log := logger.FromContext(ctx)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var purchase *model.Purchase
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		purchase, err = s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if input.PurchaseCode != "" && input.PurchaseCode != purchase.PurchaseCode {
			if err := ensureUnique(ctx, id,
				uniqueCheck{input.PurchaseCode, s.repo.ExistsByCode, "purchase with code %s already exists"},
			); err != nil {
				return err
			}
			purchase.PurchaseCode = input.PurchaseCode
		}
		purchase.Details = nil
		if err := s.build(ctx, purchase, input); err != nil {
			return err
		}
		return s.repo.Update(ctx, purchase)
	})
	if err != nil {
		log.Warn("Purchase update failed", zap.Uint("purchase_id", id), zap.Error(err))
		return nil, err
	}

	prometheus.RecordOperation("purchase", "update")
	log.Info("Purchase updated", zap.Uint("purchase_id", id), zap.String("total_amount", purchase.TotalAmount.StringFixed(2)))
	return purchase, nil
}

func (s *PurchaseService) Delete(ctx context.Context, id uint) (*model.Purchase, error) {
	return s.setStatus(ctx, id, model.StatusInactive, "delete")
}

func (s *PurchaseService) Restore(ctx context.Context, id uint) (*model.Purchase, error) {
	return s.setStatus(ctx, id, model.StatusActive, "restore")
}

func (s *PurchaseService) setStatus(ctx context.Context, id uint, status, operation string) (*model.Purchase, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("purchase", operation)
	logger.FromContext(ctx).Info("Purchase status changed", zap.Uint("purchase_id", id), zap.String("status", status))
	return s.repo.FindByID(ctx, id)
}

// Summary counts purchases and sums active purchase amounts overall and for the current month
func (s *PurchaseService) Summary(ctx context.Context) (*model.PurchaseSummary, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.SumTotal(ctx, model.StatusActive, nil)
	if err != nil {
		return nil, err
	}
	monthStart := s.today().FirstOfMonth()
	month, err := s.repo.SumTotal(ctx, model.StatusActive, &monthStart)
	if err != nil {
		return nil, err
	}
	return &model.PurchaseSummary{
		Total:       sumCounts(counts),
		Active:      counts[model.StatusActive],
		TotalAmount: total,
		MonthAmount: month,
	}, nil
}

func (s *PurchaseService) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.repo.ExistsByCode(ctx, code, 0)
}

// NextCode returns the purchase code that follows the latest issued one
func (s *PurchaseService) NextCode(ctx context.Context) (string, error) {
	latest, err := s.repo.LatestCode(ctx)
	if err != nil {
		return "", err
	}
	return NextCode(PurchaseCodePrefix, latest), nil
}

// build resolves the supplier and products and fills the header and lines from input
func (s *PurchaseService) build(ctx context.Context, purchase *model.Purchase, input PurchaseInput) error {
	if _, err := s.suppliers.FindByID(ctx, input.SupplierID); err != nil {
		return err
	}
	purchase.SupplierID = input.SupplierID
	purchase.PaymentType = input.PaymentType
	if !input.PurchaseDate.IsZero() {
		purchase.PurchaseDate = input.PurchaseDate
	}
	if purchase.PurchaseDate.IsZero() {
		purchase.PurchaseDate = s.today()
	}
	purchase.Status = defaultString(input.Status, purchase.Status)

	for _, line := range input.Details {
		if _, err := s.products.FindByID(ctx, line.ProductID); err != nil {
			return err
		}
		purchase.Details = append(purchase.Details, model.PurchaseDetail{
			PurchaseID: purchase.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitCost:   line.UnitCost,
		})
	}
	purchase.RecalculateTotal()
	return nil
}
