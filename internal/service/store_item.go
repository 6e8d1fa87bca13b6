package service

import (
	"context"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"
	"backoffice-service/prometheus"

	"go.uber.org/zap"
)

// StoreItemRepository is the storage the store item service needs
type StoreItemRepository interface {
	FindAll(ctx context.Context) ([]model.StoreItem, error)
	FindByID(ctx context.Context, id uint) (*model.StoreItem, error)
	FindByStatus(ctx context.Context, status string) ([]model.StoreItem, error)
	Search(ctx context.Context, term, status string) ([]model.StoreItem, error)
	Create(ctx context.Context, item *model.StoreItem) error
	Save(ctx context.Context, item *model.StoreItem) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	FindLowStock(ctx context.Context, threshold int) ([]model.StoreItem, error)
	FindOutOfStock(ctx context.Context) ([]model.StoreItem, error)
	FindExpiringBetween(ctx context.Context, from, to model.Date) ([]model.StoreItem, error)
	Summarize(ctx context.Context, nearFrom, nearTo model.Date) (*model.StoreItemSummary, error)
	ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error)
	ExistsByProductName(ctx context.Context, name string) (bool, error)
	LatestCode(ctx context.Context) (string, error)
}

// StoreItemService manages warehouse items and keeps their status derived from stock and expiry
type StoreItemService struct {
	repo  StoreItemRepository
	today Clock
}

// NewStoreItemService creates the store item service
func NewStoreItemService(repo StoreItemRepository) *StoreItemService {
	return &StoreItemService{repo: repo, today: model.Today}
}

func (s *StoreItemService) List(ctx context.Context) ([]model.StoreItem, error) {
	return s.repo.FindAll(ctx)
}

func (s *StoreItemService) Get(ctx context.Context, id uint) (*model.StoreItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *StoreItemService) ListByStatus(ctx context.Context, status string) ([]model.StoreItem, error) {
	return s.repo.FindByStatus(ctx, status)
}

// Search matches items in any status unless one is given
func (s *StoreItemService) Search(ctx context.Context, term, status string) ([]model.StoreItem, error) {
	return s.repo.Search(ctx, term, status)
}

// Create adds an item with a derived status, issuing the next item code when none is given
func (s *StoreItemService) Create(ctx context.Context, item *model.StoreItem) (*model.StoreItem, error) {
	log := logger.FromContext(ctx)

	if err := validateStoreItemStock(item); err != nil {
		return nil, err
	}
	if item.ItemCode == "" {
		code, err := s.NextCode(ctx)
		if err != nil {
			return nil, err
		}
		item.ItemCode = code
	}
	if err := ensureUnique(ctx, 0,
		uniqueCheck{item.ItemCode, s.repo.ExistsByCode, "store item with code %s already exists"},
	); err != nil {
		log.Warn("Store item already exists", zap.String("item_code", item.ItemCode))
		return nil, err
	}

	item.ID = 0
	item.Status = model.DeriveStoreItemStatus(*item, s.today())
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("store_item", "create")
	prometheus.UpdateStoreItemStock(item.ItemCode, item.Status, item.CurrentStock)
	log.Info("Store item created",
		zap.Uint("store_item_id", item.ID),
		zap.String("item_code", item.ItemCode),
		zap.String("status", item.Status))
	return item, nil
}

// Update replaces the item fields and re-derives the status; an inactive item stays inactive
func (s *StoreItemService) Update(ctx context.Context, id uint, changes *model.StoreItem) (*model.StoreItem, error) {
	log := logger.FromContext(ctx)

	if err := validateStoreItemStock(changes); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if changes.ItemCode == "" {
		changes.ItemCode = item.ItemCode
	}
	if err := ensureUnique(ctx, id,
		uniqueCheck{changes.ItemCode, s.repo.ExistsByCode, "store item with code %s already exists"},
	); err != nil {
		log.Warn("Store item update conflicts with another item", zap.Uint("store_item_id", id))
		return nil, err
	}

	item.ItemCode = changes.ItemCode
	item.ProductName = changes.ProductName
	item.Category = changes.Category
	item.CurrentStock = changes.CurrentStock
	item.MinimumStock = changes.MinimumStock
	item.Unit = changes.Unit
	item.UnitPrice = changes.UnitPrice
	item.SupplierID = changes.SupplierID
	item.ExpiryDate = changes.ExpiryDate
	item.Location = changes.Location
	item.RefreshStatus(s.today())

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("store_item", "update")
	prometheus.UpdateStoreItemStock(item.ItemCode, item.Status, item.CurrentStock)
	log.Info("Store item updated", zap.Uint("store_item_id", id), zap.String("status", item.Status))
	return item, nil
}

// Delete marks the item inactive
func (s *StoreItemService) Delete(ctx context.Context, id uint) (*model.StoreItem, error) {
	if err := s.repo.UpdateStatus(ctx, id, model.ItemInactive); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("store_item", "delete")
	logger.FromContext(ctx).Info("Store item deactivated", zap.Uint("store_item_id", id))
	return s.repo.FindByID(ctx, id)
}

// Restore re-derives the status from the current stock and expiry
func (s *StoreItemService) Restore(ctx context.Context, id uint) (*model.StoreItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Status = model.DeriveStoreItemStatus(*item, s.today())
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	prometheus.RecordOperation("store_item", "restore")
	logger.FromContext(ctx).Info("Store item restored", zap.Uint("store_item_id", id), zap.String("status", item.Status))
	return item, nil
}

// SetStock overwrites the stock and re-derives the status
func (s *StoreItemService) SetStock(ctx context.Context, id uint, stock int) (*model.StoreItem, error) {
	if stock < 0 {
		return nil, apperror.Validation("invalid newStock", map[string]string{"newStock": "must not be negative"})
	}
	return s.adjustStock(ctx, id, "set_stock", func(int) int { return stock })
}

// AddStock increases the stock and re-derives the status
func (s *StoreItemService) AddStock(ctx context.Context, id uint, quantity int) (*model.StoreItem, error) {
	if err := requirePositive("quantity", quantity); err != nil {
		return nil, err
	}
	return s.adjustStock(ctx, id, "add_stock", func(current int) int { return current + quantity })
}

// ReduceStock decreases the stock, never below zero, and re-derives the status
func (s *StoreItemService) ReduceStock(ctx context.Context, id uint, quantity int) (*model.StoreItem, error) {
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

func (s *StoreItemService) adjustStock(ctx context.Context, id uint, operation string, next func(current int) int) (*model.StoreItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := item.CurrentStock
	item.CurrentStock = next(previous)
	item.RefreshStatus(s.today())
	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}

	prometheus.RecordOperation("store_item", operation)
	prometheus.UpdateStoreItemStock(item.ItemCode, item.Status, item.CurrentStock)
	logger.FromContext(ctx).Info("Store item stock adjusted",
		zap.Uint("store_item_id", id),
		zap.String("operation", operation),
		zap.Int("previous_stock", previous),
		zap.Int("stock", item.CurrentStock),
		zap.String("status", item.Status))
	return item, nil
}

// LowStock lists items with some stock left at or below the fixed threshold
func (s *StoreItemService) LowStock(ctx context.Context) ([]model.StoreItem, error) {
	return s.repo.FindLowStock(ctx, model.StoreItemLowStockThreshold)
}

func (s *StoreItemService) OutOfStock(ctx context.Context) ([]model.StoreItem, error) {
	return s.repo.FindOutOfStock(ctx)
}

// NearExpiry lists items expiring between today and the end of the near expiry window
func (s *StoreItemService) NearExpiry(ctx context.Context) ([]model.StoreItem, error) {
	today := s.today()
	return s.repo.FindExpiringBetween(ctx, today, today.AddDays(model.NearExpiryDays))
}

func (s *StoreItemService) Summary(ctx context.Context) (*model.StoreItemSummary, error) {
	today := s.today()
	return s.repo.Summarize(ctx, today, today.AddDays(model.NearExpiryDays))
}

func (s *StoreItemService) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.repo.ExistsByCode(ctx, code, 0)
}

func (s *StoreItemService) ExistsByProductName(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByProductName(ctx, name)
}

// NextCode returns the item code that follows the latest issued one
func (s *StoreItemService) NextCode(ctx context.Context) (string, error) {
	latest, err := s.repo.LatestCode(ctx)
	if err != nil {
		return "", err
	}
	return NextCode(StoreItemCodePrefix, latest), nil
}

func validateStoreItemStock(item *model.StoreItem) error {
	fields := map[string]string{}
	if item.CurrentStock < 0 {
		fields["current_stock"] = "must not be negative"
	}
	if item.MinimumStock < 0 {
		fields["minimum_stock"] = "must not be negative"
	}
	if len(fields) > 0 {
		return apperror.Validation("invalid store item stock", fields)
	}
	return nil
}
