package service

import (
	"context"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dashboardRecentSales = 5
	dashboardTopProducts = 5
)

// DashboardQueries runs the cross-table dashboard queries
type DashboardQueries interface {
	RecentSales(ctx context.Context, limit int) ([]model.RecentSale, error)
	TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error)
}

// DashboardSales is the part of the sale storage the dashboard reads
type DashboardSales interface {
	CountOn(ctx context.Context, day model.Date) (int64, error)
	SumTotal(ctx context.Context, status string, on *model.Date) (decimal.Decimal, error)
}

// StatusCounter counts rows of one table by status
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// DashboardProducts lists the catalog for the dashboard
type DashboardProducts interface {
	FindAll(ctx context.Context) ([]model.Product, error)
}

// DashboardStoreItems lists store items expiring soon
type DashboardStoreItems interface {
	FindExpiringBetween(ctx context.Context, from, to model.Date) ([]model.StoreItem, error)
}

// DashboardService assembles the landing page aggregate
type DashboardService struct {
	queries    DashboardQueries
	sales      DashboardSales
	customers  StatusCounter
	employees  StatusCounter
	products   DashboardProducts
	storeItems DashboardStoreItems
	today      Clock
}

// NewDashboardService creates the dashboard service
func NewDashboardService(queries DashboardQueries, sales DashboardSales, customers, employees StatusCounter,
	products DashboardProducts, storeItems DashboardStoreItems) *DashboardService {
	return &DashboardService{
		queries:    queries,
		sales:      sales,
		customers:  customers,
		employees:  employees,
		products:   products,
		storeItems: storeItems,
		today:      model.Today,
	}
}

// Get computes the dashboard; nothing is cached
func (s *DashboardService) Get(ctx context.Context) (*model.Dashboard, error) {
	today := s.today()
	dashboard := &model.Dashboard{}

	var err error
	if dashboard.TodaySalesCount, err = s.sales.CountOn(ctx, today); err != nil {
		return nil, err
	}
	if dashboard.TodaySalesAmount, err = s.sales.SumTotal(ctx, model.SaleCompleted, &today); err != nil {
		return nil, err
	}

	customers, err := s.customers.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	dashboard.TotalCustomers = sumCounts(customers)

	employees, err := s.employees.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	dashboard.TotalEmployees = sumCounts(employees)

	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	catalog := SummarizeProducts(products)
	dashboard.TotalProducts = catalog.Total
	dashboard.AvailableProducts = catalog.Available

	if dashboard.RecentSales, err = s.queries.RecentSales(ctx, dashboardRecentSales); err != nil {
		return nil, err
	}
	if dashboard.TopProducts, err = s.queries.TopProducts(ctx, dashboardTopProducts); err != nil {
		return nil, err
	}

	expiring, err := s.storeItems.FindExpiringBetween(ctx, today, today.AddDays(model.NearExpiryDays))
	if err != nil {
		return nil, err
	}
	dashboard.StockAlerts = stockAlerts(products, expiring)

	logger.FromContext(ctx).Debug("Dashboard computed",
		zap.Int64("today_sales", dashboard.TodaySalesCount),
		zap.Int("stock_alerts", len(dashboard.StockAlerts)))
	return dashboard, nil
}

// stockAlerts lists active products that are empty or low, then store items about to expire
func stockAlerts(products []model.Product, expiring []model.StoreItem) []model.StockAlert {
	alerts := []model.StockAlert{}
	for _, p := range products {
		if p.Status != model.StatusActive {
			continue
		}
		switch {
		case p.IsOutOfStock():
			alerts = append(alerts, model.StockAlert{Source: "product", Code: p.ProductCode, Name: p.Name, Stock: p.Stock, Status: model.ItemOutOfStock})
		case p.IsLowStock():
			alerts = append(alerts, model.StockAlert{Source: "product", Code: p.ProductCode, Name: p.Name, Stock: p.Stock, Status: model.ItemLowStock})
		}
	}
	for _, item := range expiring {
		if item.Status == model.ItemInactive {
			continue
		}
		alerts = append(alerts, model.StockAlert{Source: "store_item", Code: item.ItemCode, Name: item.ProductName, Stock: item.CurrentStock, Status: model.ItemNearExpiry})
	}
	return alerts
}
