package repository

import (
	"context"
	"strings"
	"time"

	"backoffice-service/internal/model"
	"backoffice-service/prometheus"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StoreItemRepository persists warehouse items
type StoreItemRepository struct {
	store[model.StoreItem]
}

// NewStoreItemRepository creates the store item repository
func NewStoreItemRepository(db *gorm.DB) *StoreItemRepository {
	return &StoreItemRepository{store[model.StoreItem]{db: db, entity: "store item"}}
}

// Search matches product name, code, category and location
func (r *StoreItemRepository) Search(ctx context.Context, term, status string) ([]model.StoreItem, error) {
	return r.search(ctx, []string{"product_name", "item_code", "category", "location"}, term, status)
}

// ExistsByCode reports whether another item uses code
func (r *StoreItemRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	return r.exists(ctx, "item_code", code, excludeID)
}

// ExistsByProductName reports whether an item has exactly this product name, ignoring case
func (r *StoreItemRepository) ExistsByProductName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "LOWER(product_name)", strings.ToLower(strings.TrimSpace(name)), 0)
}

// LatestCode returns the most recently issued item code
func (r *StoreItemRepository) LatestCode(ctx context.Context) (string, error) {
	return r.latestCode(ctx, "item_code")
}

// FindLowStock returns items with some stock at or below threshold, lowest first
func (r *StoreItemRepository) FindLowStock(ctx context.Context, threshold int) ([]model.StoreItem, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var items []model.StoreItem
	err := r.raw(ctx).Where("current_stock <= ? AND current_stock > 0", threshold).Order("current_stock ASC, id").Find(&items).Error
	return items, errors.Wrap(err, "list low stock items")
}

// FindOutOfStock returns items without stock
func (r *StoreItemRepository) FindOutOfStock(ctx context.Context) ([]model.StoreItem, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var items []model.StoreItem
	err := r.raw(ctx).Where("current_stock <= 0").Order("id").Find(&items).Error
	return items, errors.Wrap(err, "list out of stock items")
}

// FindExpiringBetween returns items whose expiry date falls in [from, to], soonest first
func (r *StoreItemRepository) FindExpiringBetween(ctx context.Context, from, to model.Date) ([]model.StoreItem, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var items []model.StoreItem
	err := r.raw(ctx).Where("expiry_date BETWEEN ? AND ?", from, to).Order("expiry_date ASC, id").Find(&items).Error
	return items, errors.Wrap(err, "list near expiry items")
}

// Summarize aggregates the inventory in one query; nearFrom and nearTo bound the near expiry window
func (r *StoreItemRepository) Summarize(ctx context.Context, nearFrom, nearTo model.Date) (*model.StoreItemSummary, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var row struct {
		Total      int64
		LowStock   int64
		OutOfStock int64
		NearExpiry int64
		TotalValue decimal.NullDecimal
	}
	err := r.raw(ctx).Model(&model.StoreItem{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN current_stock <= minimum_stock AND current_stock > 0 THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(CASE WHEN current_stock <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
			COALESCE(SUM(CASE WHEN expiry_date BETWEEN ? AND ? THEN 1 ELSE 0 END), 0) AS near_expiry,
			SUM(CASE WHEN status <> ? THEN unit_price * current_stock ELSE 0 END) AS total_value`,
			nearFrom, nearTo, model.ItemOutOfStock).
		Scan(&row).Error
	if err != nil {
		return nil, errors.Wrap(err, "summarize store items")
	}
	return &model.StoreItemSummary{
		Total:      row.Total,
		LowStock:   row.LowStock,
		OutOfStock: row.OutOfStock,
		NearExpiry: row.NearExpiry,
		TotalValue: row.TotalValue.Decimal,
	}, nil
}
