package repository

import (
	"context"
	"strings"
	"time"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/prometheus"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ProductRepository persists catalog products
type ProductRepository struct {
	store[model.Product]
}

// NewProductRepository creates the product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{store[model.Product]{db: db, entity: "product"}}
}

// Search matches code, name, category and description
func (r *ProductRepository) Search(ctx context.Context, term, status string) ([]model.Product, error) {
	return r.search(ctx, []string{"product_code", "name", "category", "description"}, term, status)
}

// FindByCode returns the product with the given code
func (r *ProductRepository) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	return r.findOneBy(ctx, "product_code", code)
}

// ExistsByCode reports whether another product uses code
func (r *ProductRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	return r.exists(ctx, "product_code", code, excludeID)
}

// ExistsByName reports whether a product has exactly this name, ignoring case
func (r *ProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "LOWER(name)", strings.ToLower(strings.TrimSpace(name)), 0)
}

// LatestCode returns the most recently issued product code
func (r *ProductRepository) LatestCode(ctx context.Context) (string, error) {
	return r.latestCode(ctx, "product_code")
}

// UpdateStock writes the stock column only
func (r *ProductRepository) UpdateStock(ctx context.Context, id uint, stock int) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	result := r.raw(ctx).Model(&model.Product{}).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "update product %d stock", id)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product %d not found", id)
	}
	return nil
}

// TopByStock returns the active products with the highest stock
func (r *ProductRepository) TopByStock(ctx context.Context, limit int) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var products []model.Product
	err := r.raw(ctx).Where("status = ?", model.StatusActive).Order("stock DESC, id").Limit(limit).Find(&products).Error
	return products, errors.Wrap(err, "top products by stock")
}
