package service

import (
	"context"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRepository is the storage the product service needs
type ProductRepository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByCode(ctx context.Context, code string) (*model.Product, error)
	FindByStatus(ctx context.Context, status string) ([]model.Product, error)
	Search(ctx context.Context, term, status string) ([]model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Save(ctx context.Context, product *model.Product) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateStock(ctx context.Context, id uint, stock int) error
	TopByStock(ctx context.Context, limit int) ([]model.Product, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	LatestCode(ctx context.Context) (string, error)
}

// StockLedger adjusts product stock on behalf of the sale workflow
type StockLedger interface {
	ReduceStock(ctx context.Context, productID uint, quantity int) (*model.Product, error)
	AddStock(ctx context.Context, productID uint, quantity int) (*model.Product, error)
}

// ProductService manages the catalog and its stock counters
type ProductService struct {
	repo ProductRepository
}

// NewProductService creates the product service
func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.FindAll(ctx)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) GetByCode(ctx context.Context, code string) (*model.Product, error) {
	return s.repo.FindByCode(ctx, code)
}

func (s *ProductService) ListByStatus(ctx context.Context, status string) ([]model.Product, error) {
	return s.repo.FindByStatus(ctx, status)
}

func (s *ProductService) Search(ctx context.Context, term, status string) ([]model.Product, error) {
	return s.repo.Search(ctx, term, defaultString(status, model.StatusActive))
}

// Create adds a product; its stock starts at the initial stock
func (s *ProductService) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	log := logger.FromContext(ctx)

	if product.InitialStock < 0 {
		return nil, apperror.Validation("invalid initial_stock", map[string]string{"initial_stock": "must not be negative"})
	}
	if product.ProductCode == "" {
		code, err := s.NextCode(ctx)
		if err != nil {
			return nil, err
		}
		product.ProductCode = code
	}
	if err := ensureUnique(ctx, 0,
		uniqueCheck{product.ProductCode, s.repo.ExistsByCode, "product with code %s already exists"},
	); err != nil {
		log.Warn("Product already exists", zap.String("product_code", product.ProductCode))
		return nil, err
	}

	product.ID = 0
	product.Stock = product.InitialStock
	product.Status = defaultString(product.Status, model.StatusActive)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("product", "create")
	prometheus.UpdateProductStock(product.ProductCode, product.Category, product.Stock)
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("product_code", product.ProductCode),
		zap.Int("stock", product.Stock))
	return product, nil
}

// Update changes the descriptive fields; stock and initial stock are left alone
func (s *ProductService) Update(ctx context.Context, id uint, changes *model.Product) (*model.Product, error) {
	log := logger.FromContext(ctx)

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes.ProductCode == "" {
		changes.ProductCode = product.ProductCode
	}
	if err := ensureUnique(ctx, id,
		uniqueCheck{changes.ProductCode, s.repo.ExistsByCode, "product with code %s already exists"},
	); err != nil {
		log.Warn("Product update conflicts with another product", zap.Uint("product_id", id))
		return nil, err
	}

	product.ProductCode = changes.ProductCode
	product.Name = changes.Name
	product.Category = changes.Category
	product.Description = changes.Description
	product.Price = changes.Price
	product.ImageURL = changes.ImageURL
	product.Status = defaultString(changes.Status, product.Status)

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("product", "update")
	log.Info("Product updated", zap.Uint("product_id", id))
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) (*model.Product, error) {
	return s.setStatus(ctx, id, model.StatusInactive, "delete")
}

func (s *ProductService) Restore(ctx context.Context, id uint) (*model.Product, error) {
	return s.setStatus(ctx, id, model.StatusActive, "restore")
}

func (s *ProductService) setStatus(ctx context.Context, id uint, status, operation string) (*model.Product, error) {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("product", operation)
	logger.FromContext(ctx).Info("Product status changed", zap.Uint("product_id", id), zap.String("status", status))
	return s.repo.FindByID(ctx, id)
}

// SetStock overwrites the stock counter
func (s *ProductService) SetStock(ctx context.Context, id uint, stock int) (*model.Product, error) {
	if stock < 0 {
		return nil, apperror.Validation("invalid newStock", map[string]string{"newStock": "must not be negative"})
	}
	return s.adjustStock(ctx, id, "set_stock", func(int) int { return stock })
}

// AddStock increases the stock counter by quantity
func (s *ProductService) AddStock(ctx context.Context, id uint, quantity int) (*model.Product, error) {
	if err := requirePositive("quantity", quantity); err != nil {
		return nil, err
	}
	return s.adjustStock(ctx, id, "add_stock", func(current int) int { return current + quantity })
}

// ReduceStock decreases the stock counter by quantity, never below zero
func (s *ProductService) ReduceStock(ctx context.Context, id uint, quantity int) (*model.Product, error) {
	if err := requirePositive("quantity", quantity); err != nil {
		return nil, err
	}
	return s.adjustStock(ctx, id, "reduce_stock", func(current int) int {
		if current < quantity {
			return 0
		}
		return current - quantity
	})
}

func (s *ProductService) adjustStock(ctx context.Context, id uint, operation string, next func(current int) int) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := product.Stock
	product.Stock = next(previous)
	if err := s.repo.UpdateStock(ctx, id, product.Stock); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("product", operation)
	prometheus.UpdateProductStock(product.ProductCode, product.Category, product.Stock)
	logger.FromContext(ctx).Info("Product stock adjusted",
		zap.Uint("product_id", id),
		zap.String("operation", operation),
		zap.Int("previous_stock", previous),
		zap.Int("stock", product.Stock))
	return product, nil
}

// Summary aggregates the catalog in memory
func (s *ProductService) Summary(ctx context.Context) (*model.ProductSummary, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	summary := SummarizeProducts(products)
	return &summary, nil
}

// SummarizeProducts counts every product; availability, stock alerts and values only
// consider active products. The average price divides by the available count.
func SummarizeProducts(products []model.Product) model.ProductSummary {
	summary := model.ProductSummary{
		Total:      int64(len(products)),
		TotalValue: decimal.Zero,
	}
	prices := decimal.Zero
	for _, p := range products {
		if p.Status != model.StatusActive {
			continue
		}
		if p.Stock > 0 {
			summary.Available++
		}
		if p.IsLowStock() {
			summary.LowStock++
		}
		if p.IsOutOfStock() {
			summary.OutOfStock++
		}
		summary.TotalValue = summary.TotalValue.Add(p.TotalStockValue())
		prices = prices.Add(p.Price)
	}
	summary.AveragePrice = average(prices, summary.Available)
	return summary
}

// TopByStock returns the active products holding the most stock
func (s *ProductService) TopByStock(ctx context.Context, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.TopByStock(ctx, limit)
}

func (s *ProductService) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.repo.ExistsByCode(ctx, code, 0)
}

func (s *ProductService) ExistsByName(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, name)
}

// NextCode returns the product code that follows the latest issued one
func (s *ProductService) NextCode(ctx context.Context) (string, error) {
	latest, err := s.repo.LatestCode(ctx)
	if err != nil {
		return "", err
	}
	return NextCode(ProductCodePrefix, latest), nil
}
