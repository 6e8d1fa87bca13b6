package service

import (
	"context"
	"testing"

	"backoffice-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDashboardQueries struct {
	recentLimit, topLimit int
}

func (s *stubDashboardQueries) RecentSales(ctx context.Context, limit int) ([]model.RecentSale, error) {
	s.recentLimit = limit
	return []model.RecentSale{{ID: 1, SaleCode: "V001", CustomerName: "Ana Torres", Items: 3}}, nil
}

func (s *stubDashboardQueries) TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error) {
	s.topLimit = limit
	return []model.TopProduct{{ProductID: 1, Name: "Arroz", Quantity: 12}}, nil
}

type fixedCounts map[string]int64

func (c fixedCounts) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return c, nil
}

func TestDashboard(t *testing.T) {
	products := newMemProducts(
		model.Product{ID: 1, ProductCode: "P001", Name: "Arroz", Price: money("10.00"), Stock: 10, InitialStock: 10, Status: model.StatusActive},
		model.Product{ID: 2, ProductCode: "P002", Name: "Azucar", Price: money("5.00"), Stock: 1, InitialStock: 10, Status: model.StatusActive},
		model.Product{ID: 3, ProductCode: "P003", Name: "Sal", Price: money("1.00"), Stock: 0, InitialStock: 10, Status: model.StatusActive},
		model.Product{ID: 4, ProductCode: "P004", Name: "Te", Price: money("1.00"), Stock: 0, InitialStock: 10, Status: model.StatusInactive},
	)
	sales := newMemSales()
	sales.rows[1] = model.Sale{ID: 1, SaleDate: fixedToday, Status: model.SaleCompleted, Total: money("25.00")}
	sales.rows[2] = model.Sale{ID: 2, SaleDate: fixedToday, Status: model.SalePending, Total: money("9.00")}
	sales.rows[3] = model.Sale{ID: 3, SaleDate: fixedToday.AddDays(-1), Status: model.SaleCompleted, Total: money("70.00")}
	items := newMemStoreItems(
		model.StoreItem{ItemCode: "A001", ProductName: "Yogurt", CurrentStock: 20, ExpiryDate: datePtr(fixedToday.AddDays(2)), Status: model.ItemNearExpiry},
		model.StoreItem{ItemCode: "A002", ProductName: "Queso", CurrentStock: 20, ExpiryDate: datePtr(fixedToday.AddDays(2)), Status: model.ItemInactive},
	)
	queries := &stubDashboardQueries{}

	svc := NewDashboardService(queries, sales,
		fixedCounts{model.StatusActive: 4, model.StatusInactive: 1},
		fixedCounts{model.StatusActive: 2},
		products, items)
	svc.today = fixedClock

	dashboard, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), dashboard.TodaySalesCount)
	assertMoney(t, "25.00", dashboard.TodaySalesAmount)
	assert.Equal(t, int64(5), dashboard.TotalCustomers)
	assert.Equal(t, int64(2), dashboard.TotalEmployees)
	assert.Equal(t, int64(4), dashboard.TotalProducts)
	assert.Equal(t, int64(2), dashboard.AvailableProducts)
	assert.Equal(t, 5, queries.recentLimit)
	assert.Equal(t, 5, queries.topLimit)
	assert.Len(t, dashboard.RecentSales, 1)
	assert.Len(t, dashboard.TopProducts, 1)

	assert.Equal(t, []model.StockAlert{
		{Source: "product", Code: "P002", Name: "Azucar", Stock: 1, Status: model.ItemLowStock},
		{Source: "product", Code: "P003", Name: "Sal", Stock: 0, Status: model.ItemOutOfStock},
		{Source: "store_item", Code: "A001", Name: "Yogurt", Stock: 20, Status: model.ItemNearExpiry},
	}, dashboard.StockAlerts)
}
