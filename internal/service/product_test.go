package service

import (
	"context"
	"testing"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductStartsAtInitialStock(t *testing.T) {
	repo := newMemProducts(model.Product{ID: 1, ProductCode: "P007", Name: "Leche", Status: model.StatusActive})
	svc := NewProductService(repo)

	product, err := svc.Create(context.Background(), &model.Product{Name: "Cafe", Price: money("12.50"), Stock: 99, InitialStock: 40})
	require.NoError(t, err)

	assert.Equal(t, "P008", product.ProductCode)
	assert.Equal(t, 40, product.Stock)
	assert.Equal(t, 40, product.InitialStock)
	assert.Equal(t, model.StatusActive, product.Status)
}

func TestCreateProductRejectsTakenCode(t *testing.T) {
	repo := newMemProducts(model.Product{ID: 1, ProductCode: "P001", Name: "Leche"})
	svc := NewProductService(repo)

	_, err := svc.Create(context.Background(), &model.Product{ProductCode: "P001", Name: "Cafe"})
	assert.True(t, apperror.IsConflict(err))
}

func TestUpdateProductLeavesStockAlone(t *testing.T) {
	repo := newMemProducts(model.Product{ID: 1, ProductCode: "P001", Name: "Leche", Stock: 3, InitialStock: 20, Status: model.StatusActive})
	svc := NewProductService(repo)

	updated, err := svc.Update(context.Background(), 1, &model.Product{Name: "Leche Entera", Price: money("4.20"), Stock: 500, InitialStock: 500})
	require.NoError(t, err)

	assert.Equal(t, "Leche Entera", updated.Name)
	assert.Equal(t, "P001", updated.ProductCode)
	assert.Equal(t, 3, repo.stock(1))
	assert.Equal(t, 20, repo.rows[1].InitialStock)
}

func TestStockLedgerOperations(t *testing.T) {
	repo := newMemProducts(model.Product{ID: 1, ProductCode: "P001", Stock: 10, InitialStock: 10, Status: model.StatusActive})
	svc := NewProductService(repo)
	ctx := context.Background()

	p, err := svc.ReduceStock(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Stock)

	p, err = svc.ReduceStock(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	p, err = svc.AddStock(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)

	p, err = svc.SetStock(ctx, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, p.Stock)
	assert.Equal(t, 25, repo.stock(1))
	assert.Equal(t, 10, repo.rows[1].InitialStock)
}

func TestStockLedgerErrors(t *testing.T) {
	svc := NewProductService(newMemProducts(model.Product{ID: 1, Stock: 10}))
	ctx := context.Background()

	_, err := svc.AddStock(ctx, 9, 1)
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.ReduceStock(ctx, 1, 0)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.SetStock(ctx, 1, -1)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestSummarizeProducts(t *testing.T) {
	products := []model.Product{
		{Price: money("10.00"), Stock: 10, InitialStock: 10, Status: model.StatusActive},
		{Price: money("4.00"), Stock: 1, InitialStock: 10, Status: model.StatusActive},
		{Price: money("3.00"), Stock: 0, InitialStock: 5, Status: model.StatusActive},
		{Price: money("100.00"), Stock: 50, InitialStock: 50, Status: model.StatusInactive},
	}

	summary := SummarizeProducts(products)

	assert.Equal(t, int64(4), summary.Total)
	assert.Equal(t, int64(2), summary.Available)
	assert.Equal(t, int64(2), summary.LowStock)
	assert.Equal(t, int64(1), summary.OutOfStock)
	assertMoney(t, "104.00", summary.TotalValue)
	assertMoney(t, "8.50", summary.AveragePrice)
}

func TestSummarizeProductsWithoutAvailableStock(t *testing.T) {
	summary := SummarizeProducts([]model.Product{
		{Price: money("3.335"), Stock: 0, InitialStock: 5, Status: model.StatusActive},
	})

	assert.Equal(t, int64(0), summary.Available)
	assertMoney(t, "3.34", summary.AveragePrice)
}

func TestTopByStockDefaultsLimit(t *testing.T) {
	repo := newMemProducts(
		model.Product{ID: 1, Stock: 5, Status: model.StatusActive},
		model.Product{ID: 2, Stock: 50, Status: model.StatusActive},
		model.Product{ID: 3, Stock: 500, Status: model.StatusInactive},
	)
	top, err := NewProductService(repo).TopByStock(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, uint(2), top[0].ID)
}

func TestProductExistsByNameIgnoresCase(t *testing.T) {
	svc := NewProductService(newMemProducts(model.Product{ID: 1, Name: "Arroz Costeño"}))

	exists, err := svc.ExistsByName(context.Background(), "arroz costeño")
	require.NoError(t, err)
	assert.True(t, exists)
}
