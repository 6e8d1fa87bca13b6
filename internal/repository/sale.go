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

// SaleRepository persists sale aggregates, header and lines together
type SaleRepository struct {
	store[model.Sale]
}

// NewSaleRepository creates the sale repository
func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{store[model.Sale]{db: db, entity: "sale", preloads: []string{"Details"}}}
}

// Search matches the sale code and the customer's name or surname
func (r *SaleRepository) Search(ctx context.Context, term, status string) ([]model.Sale, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	q := r.conn(ctx).
		Select("sales.*").
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id")
	if status != "" {
		q = q.Where("sales.status = ?", status)
	}
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(sales.sale_code) LIKE ? OR LOWER(customers.name) LIKE ? OR LOWER(customers.surname) LIKE ?)",
			pattern, pattern, pattern)
	}
	var sales []model.Sale
	err := q.Order("sales.id").Find(&sales).Error
	return sales, errors.Wrap(err, "search sales")
}

// FindByCode returns the sale with the given code
func (r *SaleRepository) FindByCode(ctx context.Context, code string) (*model.Sale, error) {
	return r.findOneBy(ctx, "sale_code", code)
}

// FindByCustomer returns the sales of one customer
func (r *SaleRepository) FindByCustomer(ctx context.Context, customerID uint) ([]model.Sale, error) {
	return r.findManyBy(ctx, "customer_id", customerID)
}

// FindByEmployee returns the sales registered by one employee
func (r *SaleRepository) FindByEmployee(ctx context.Context, employeeID uint) ([]model.Sale, error) {
	return r.findManyBy(ctx, "employee_id", employeeID)
}

// FindByPaymentMethod returns the sales paid with method
func (r *SaleRepository) FindByPaymentMethod(ctx context.Context, method string) ([]model.Sale, error) {
	return r.findManyBy(ctx, "payment_method", method)
}

func (r *SaleRepository) findManyBy(ctx context.Context, column string, value interface{}) ([]model.Sale, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var sales []model.Sale
	err := r.conn(ctx).Where(column+" = ?", value).Order("id").Find(&sales).Error
	return sales, errors.Wrapf(err, "list sales by %s", column)
}

// ExistsByCode reports whether another sale uses code
func (r *SaleRepository) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	return r.exists(ctx, "sale_code", code, excludeID)
}

// LatestCode returns the most recently issued sale code
func (r *SaleRepository) LatestCode(ctx context.Context) (string, error) {
	return r.latestCode(ctx, "sale_code")
}

// Update saves the header and replaces every stored line with sale.Details
func (r *SaleRepository) Update(ctx context.Context, sale *model.Sale) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	db := r.raw(ctx)
	if err := db.Where("sale_id = ?", sale.ID).Delete(&model.SaleDetail{}).Error; err != nil {
		return errors.Wrapf(err, "delete lines of sale %d", sale.ID)
	}
	for i := range sale.Details {
		sale.Details[i].ID = 0
		sale.Details[i].SaleID = sale.ID
	}
	if len(sale.Details) > 0 {
		if err := db.Create(&sale.Details).Error; err != nil {
			return errors.Wrapf(err, "insert lines of sale %d", sale.ID)
		}
	}
	return errors.Wrapf(db.Omit(clause.Associations).Save(sale).Error, "update sale %d", sale.ID)
}

// SumTotal sums totals of sales with status, restricted to one day when on is set
func (r *SaleRepository) SumTotal(ctx context.Context, status string, on *model.Date) (decimal.Decimal, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var row struct {
		Total decimal.NullDecimal
	}
	q := r.raw(ctx).Model(&model.Sale{}).Select("SUM(total) AS total").Where("status = ?", status)
	if on != nil {
		q = q.Where("sale_date = ?", *on)
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, errors.Wrap(err, "sum sale totals")
	}
	return row.Total.Decimal, nil
}

// CountOn counts the sales dated on day, in any status
func (r *SaleRepository) CountOn(ctx context.Context, day model.Date) (int64, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var count int64
	err := r.raw(ctx).Model(&model.Sale{}).Where("sale_date = ?", day).Count(&count).Error
	return count, errors.Wrap(err, "count sales of day")
}
