package repository

import (
	"context"
	"time"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/database"
	"backoffice-service/prometheus"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// DashboardRepository runs the cross-table queries of the dashboard
type DashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates the dashboard repository
func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// RecentSales returns the latest sales with customer name and unit count
func (r *DashboardRepository) RecentSales(ctx context.Context, limit int) ([]model.RecentSale, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())
	var rows []model.RecentSale
	err := database.Conn(ctx, r.db).Table("sales").
		Select(`sales.id, sales.sale_code, CONCAT(customers.name, ' ', customers.surname) AS customer_name,
			sales.sale_date, COALESCE((SELECT SUM(sale_details.quantity) FROM sale_details WHERE sale_details.sale_id = sales.id), 0) AS items,
			sales.total, sales.status`).
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
		Order("sales.sale_date DESC, sales.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, errors.Wrap(err, "recent sales")
}

// TopProducts ranks products by units sold on completed sales
func (r *DashboardRepository) TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error) {
	defer prometheus.TrackDBOperation("aggregate")(time.Now())
	var rows []model.TopProduct
	err := database.Conn(ctx, r.db).Table("sale_details").
		Select(`products.id AS product_id, products.product_code, products.name,
			SUM(sale_details.quantity) AS quantity, SUM(sale_details.subtotal) AS revenue`).
		Joins("JOIN sales ON sales.id = sale_details.sale_id").
		Joins("JOIN products ON products.id = sale_details.product_id").
		Where("sales.status = ?", model.SaleCompleted).
		Group("products.id, products.product_code, products.name").
		Order("quantity DESC, products.id").
		Limit(limit).
		Scan(&rows).Error
	return rows, errors.Wrap(err, "top selling products")
}
