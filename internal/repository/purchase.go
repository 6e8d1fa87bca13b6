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
	"gorm.io/gorm/clause"
)

// PurchaseRepository persists purchases with their lines
type PurchaseRepository struct {
	store[model.Purchase]
}

// NewPurchaseRepository creates the purchase repository
func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{store[model.Purchase]{db: db, entity: "purchase", preloads: []string{"Details"}}}
}

// Search matches the purchase code, payment type and supplier company name
func (r *PurchaseRepository) Search(ctx context.Context, term, status string) ([]model.Purchase, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	q := r.conn(ctx).
		Select("purchases.*").
		Joins("LEFT JOIN suppliers ON suppliers.id = purchases.supplier_id")
	if status != "" {
		q = q.Where("purchases.status = ?", status)
	}
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(purchases.purchase_code) LIKE ? OR LOWER(purchases.payment_type) LIKE ? OR LOWER(suppliers.company_name) LIKE ?)",
			pattern, pattern, pattern)
	}
	var purchases []model.Purchase
	err := q.Order("purchases.id").Find(&purchases).Error
	return purchases, errors.Wrap(err, "search purchases")
}

// FindBySupplier returns the purchases made to one supplier
func (r *PurchaseRepository) FindBySupplier(ctx context.Context, supplierID uint) ([]model.Purchase, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var purchases []model.Purchase
	err := r.conn(ctx).Where("supplier_id = ?", supplierID).Order("id").Find(&purchases).Error
	return purchases, errors.Wrap(err, "list purchases by supplier")
}

// ExistsByCode reports whether another purchase uses code
func (r *PurchaseRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	return r.exists(ctx, "purchase_code", code, excludeID)
}

// LatestCode returns the most recently issued purchase code
func (r *PurchaseRepository) LatestCode(ctx context.Context) (string, error) {
	return r.latestCode(ctx, "purchase_code")
}

// Update saves the header and replaces every stored line with purchase.Details
func (r *PurchaseRepository) Update(ctx context.Context, purchase *model.Purchase) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	db := r.raw(ctx)
	if err := db.Where("purchase_id = ?", purchase.ID).Delete(&model.PurchaseDetail{}).Error; err != nil {
		return errors.Wrapf(err, "delete lines of purchase %d", purchase.ID)
	}
	for i := range purchase.Details {
		purchase.Details[i].ID = 0
		purchase.Details[i].PurchaseID = purchase.ID
	}
	if len(purchase.Details) > 0 {
		if err := db.Create(&purchase.Details).Error; err != nil {
			return errors.Wrapf(err, "insert lines of purchase %d", purchase.ID)
		}
	}
	return errors.Wrapf(db.Omit(clause.Associations).Save(purchase).Error, "update purchase %d", purchase.ID)
}

// SumTotal sums amounts of purchases with status, from since onwards when set
func (r *PurchaseRepository) SumTotal(ctx context.Context, status string, since *model.Date) (decimal.Decimal, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var row struct {
		Total decimal.NullDecimal
	}
	q := r.raw(ctx).Model(&model.Purchase{}).Select("SUM(total_amount) AS total").Where("status = ?", status)
	if since != nil {
		q = q.Where("purchase_date >= ?", *since)
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, errors.Wrap(err, "sum purchase totals")
	}
	return row.Total.Decimal, nil
}

// PurchaseDetailRepository reads purchase lines on their own
type PurchaseDetailRepository struct {
	store[model.PurchaseDetail]
}

// NewPurchaseDetailRepository creates the purchase line repository
func NewPurchaseDetailRepository(db *gorm.DB) *PurchaseDetailRepository {
	return &PurchaseDetailRepository{store[model.PurchaseDetail]{db: db, entity: "purchase detail"}}
}

// FindByPurchase returns the lines of one purchase in insertion order
func (r *PurchaseDetailRepository) FindByPurchase(ctx context.Context, purchaseID uint) ([]model.PurchaseDetail, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var lines []model.PurchaseDetail
	err := r.conn(ctx).Where("purchase_id = ?", purchaseID).Order("id").Find(&lines).Error
	return lines, errors.Wrapf(err, "list lines of purchase %d", purchaseID)
}
