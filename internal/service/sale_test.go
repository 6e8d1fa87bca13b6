package service

import (
	"context"
	"testing"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	svc      *SaleService
	products *memProducts
	sales    *memSales
	tx       *snapshotTx
}

func newSaleFixture() *saleFixture {
	products := newMemProducts(
		model.Product{ID: 1, ProductCode: "P001", Name: "Arroz", Category: "Abarrotes", Price: money("10.00"), Stock: 10, InitialStock: 10, Status: model.StatusActive},
		model.Product{ID: 2, ProductCode: "P002", Name: "Azucar", Category: "Abarrotes", Price: money("5.00"), Stock: 5, InitialStock: 5, Status: model.StatusActive},
	)
	sales := newMemSales()
	tx := &snapshotTx{products: products, sales: sales}
	customers := finder[model.Customer]{rows: map[uint]model.Customer{7: {ID: 7, Name: "Ana"}}, entity: "customer"}
	employees := finder[model.Employee]{rows: map[uint]model.Employee{3: {ID: 3, Name: "Luis"}}, entity: "employee"}

	svc := NewSaleService(sales, customers, employees, NewProductService(products), tx)
	svc.today = fixedClock
	return &saleFixture{svc: svc, products: products, sales: sales, tx: tx}
}

func twoLineSale() SaleInput {
	return SaleInput{
		CustomerID:    7,
		EmployeeID:    3,
		PaymentMethod: "Efectivo",
		Details: []SaleLineInput{
			{ProductID: 1, Quantity: 2, UnitPrice: money("10.00")},
			{ProductID: 2, Quantity: 1, UnitPrice: money("5.00")},
		},
	}
}

func TestCreateSaleTotalsLinesAndReducesStock(t *testing.T) {
	f := newSaleFixture()

	sale, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)

	assertMoney(t, "25.00", sale.Total)
	assert.Equal(t, "V001", sale.SaleCode)
	assert.Equal(t, model.SaleCompleted, sale.Status)
	assert.Equal(t, fixedToday, sale.SaleDate)
	require.Len(t, sale.Details, 2)
	assertMoney(t, "20.00", sale.Details[0].Subtotal)
	assertMoney(t, "5.00", sale.Details[1].Subtotal)

	assert.Equal(t, 8, f.products.stock(1))
	assert.Equal(t, 4, f.products.stock(2))

	stored, err := f.sales.FindByID(context.Background(), sale.ID)
	require.NoError(t, err)
	assertMoney(t, "25.00", stored.Total)
}

func TestCreateSaleKeepsGivenDateAndStatus(t *testing.T) {
	f := newSaleFixture()
	input := twoLineSale()
	input.SaleDate = model.NewDate(2024, 3, 1)
	input.Status = model.SalePending

	sale, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2024, 3, 1), sale.SaleDate)
	assert.Equal(t, model.SalePending, sale.Status)
}

func TestCreateSaleIssuesSequentialCodes(t *testing.T) {
	f := newSaleFixture()

	first, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)

	assert.Equal(t, "V001", first.SaleCode)
	assert.Equal(t, "V002", second.SaleCode)
}

func TestCreateSaleRejectsTakenCode(t *testing.T) {
	f := newSaleFixture()
	_, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)

	input := twoLineSale()
	input.SaleCode = "V001"
	_, err = f.svc.Create(context.Background(), input)

	assert.True(t, apperror.IsConflict(err))
	assert.Equal(t, 8, f.products.stock(1))
}

func TestCreateSaleWithMissingProductLeavesStockUntouched(t *testing.T) {
	f := newSaleFixture()
	input := twoLineSale()
	input.Details = append(input.Details, SaleLineInput{ProductID: 99, Quantity: 1, UnitPrice: money("1.00")})

	_, err := f.svc.Create(context.Background(), input)

	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 10, f.products.stock(1))
	assert.Equal(t, 5, f.products.stock(2))
	assert.Empty(t, f.sales.rows)
}

func TestCreateSaleWithMissingCustomerFails(t *testing.T) {
	f := newSaleFixture()
	input := twoLineSale()
	input.CustomerID = 404

	_, err := f.svc.Create(context.Background(), input)

	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 10, f.products.stock(1))
}

func TestCreateSaleValidatesBeforeTouchingStock(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(in *SaleInput)
		field string
	}{
		{"no lines", func(in *SaleInput) { in.Details = nil }, "details"},
		{"zero quantity", func(in *SaleInput) { in.Details[0].Quantity = 0 }, "details[0].quantity"},
		{"zero price", func(in *SaleInput) { in.Details[1].UnitPrice = money("0") }, "details[1].unit_price"},
		{"cancelled status", func(in *SaleInput) { in.Status = model.SaleCancelled }, "status"},
		{"no employee", func(in *SaleInput) { in.EmployeeID = 0 }, "employee_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSaleFixture()
			input := twoLineSale()
			tt.edit(&input)

			_, err := f.svc.Create(context.Background(), input)

			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields, tt.field)
			assert.Equal(t, 0, f.tx.calls)
			assert.Equal(t, 10, f.products.stock(1))
		})
	}
}

func TestReduceStockClampsAtZeroDuringSale(t *testing.T) {
	f := newSaleFixture()
	input := twoLineSale()
	input.Details = []SaleLineInput{{ProductID: 2, Quantity: 8, UnitPrice: money("5.00")}}

	sale, err := f.svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 0, f.products.stock(2))
	assertMoney(t, "40.00", sale.Total)
}

func TestUpdateSaleReturnsOldStockAndRebuildsLines(t *testing.T) {
	f := newSaleFixture()
	sale, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)

	update := twoLineSale()
	update.Details = []SaleLineInput{{ProductID: 2, Quantity: 3, UnitPrice: money("4.50")}}
	updated, err := f.svc.Update(context.Background(), sale.ID, update)
	require.NoError(t, err)

	assert.Equal(t, 10, f.products.stock(1))
	assert.Equal(t, 2, f.products.stock(2))
	require.Len(t, updated.Details, 1)
	assertMoney(t, "13.50", updated.Total)
	assert.Equal(t, "V001", updated.SaleCode)
	assert.Equal(t, fixedToday, updated.SaleDate)

	stored, err := f.sales.FindByID(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Details, 1)
	assertMoney(t, "13.50", stored.Total)
}

func TestUpdateSaleFailureRollsBackReturnedStock(t *testing.T) {
	f := newSaleFixture()
	sale, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)

	update := twoLineSale()
	update.Details = []SaleLineInput{{ProductID: 99, Quantity: 1, UnitPrice: money("1.00")}}
	_, err = f.svc.Update(context.Background(), sale.ID, update)

	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 8, f.products.stock(1))
	assert.Equal(t, 4, f.products.stock(2))
	stored, _ := f.sales.FindByID(context.Background(), sale.ID)
	assert.Len(t, stored.Details, 2)
}

func TestDeleteAndRestoreSaleMoveStock(t *testing.T) {
	f := newSaleFixture()
	sale, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)

	cancelled, err := f.svc.Delete(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCancelled, cancelled.Status)
	assert.Equal(t, 10, f.products.stock(1))
	assert.Equal(t, 5, f.products.stock(2))

	restored, err := f.svc.Restore(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleCompleted, restored.Status)
	assert.Equal(t, 8, f.products.stock(1))
	assert.Equal(t, 4, f.products.stock(2))
}

func TestDeleteSaleTwiceReturnsStockTwice(t *testing.T) {
	f := newSaleFixture()
	sale, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)

	_, err = f.svc.Delete(context.Background(), sale.ID)
	require.NoError(t, err)
	_, err = f.svc.Delete(context.Background(), sale.ID)
	require.NoError(t, err)

	assert.Equal(t, 12, f.products.stock(1))
}

func TestRemoveSaleLine(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture()
	sale, err := f.svc.Create(ctx, twoLineSale())
	require.NoError(t, err)
	lineID := sale.Details[1].ID

	updated, err := f.svc.RemoveLine(ctx, sale.ID, lineID)
	require.NoError(t, err)
	require.Len(t, updated.Details, 1)
	assert.Equal(t, uint(1), updated.Details[0].ProductID)
	assertMoney(t, "20.00", updated.Total)
	assert.Equal(t, 5, f.products.stock(2))

	stored, err := f.sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assertMoney(t, "20.00", stored.Total)
	assert.Len(t, stored.Details, 1)

	t.Run("unknown line", func(t *testing.T) {
		_, err := f.svc.RemoveLine(ctx, sale.ID, lineID)
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("last line stays", func(t *testing.T) {
		_, err := f.svc.RemoveLine(ctx, sale.ID, updated.Details[0].ID)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		assert.Equal(t, 8, f.products.stock(1))
	})

	t.Run("cancelled sale", func(t *testing.T) {
		other, err := f.svc.Create(ctx, twoLineSale())
		require.NoError(t, err)
		_, err = f.svc.Delete(ctx, other.ID)
		require.NoError(t, err)
		stock := f.products.stock(2)

		_, err = f.svc.RemoveLine(ctx, other.ID, other.Details[1].ID)
		assert.True(t, apperror.IsConflict(err))
		assert.Equal(t, stock, f.products.stock(2))
	})
}

func TestDeleteMissingSale(t *testing.T) {
	f := newSaleFixture()
	_, err := f.svc.Delete(context.Background(), 42)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSaleSummaryIsStableWithoutWrites(t *testing.T) {
	f := newSaleFixture()
	_, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)

	pending := twoLineSale()
	pending.Status = model.SalePending
	_, err = f.svc.Create(context.Background(), pending)
	require.NoError(t, err)

	older := twoLineSale()
	older.SaleDate = model.NewDate(2024, 2, 1)
	older.Details = []SaleLineInput{{ProductID: 1, Quantity: 1, UnitPrice: money("10.00")}}
	_, err = f.svc.Create(context.Background(), older)
	require.NoError(t, err)

	first, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	second, err := f.svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assertMoney(t, "35.00", first.TotalSales)
	assertMoney(t, "25.00", first.TodaySales)
	assert.Equal(t, int64(2), first.Completed)
	assert.Equal(t, int64(1), first.Pending)
}

func TestSearchSaleDefaultsToCompleted(t *testing.T) {
	f := newSaleFixture()
	_, err := f.svc.Create(context.Background(), twoLineSale())
	require.NoError(t, err)
	pending := twoLineSale()
	pending.Status = model.SalePending
	_, err = f.svc.Create(context.Background(), pending)
	require.NoError(t, err)

	found, err := f.svc.Search(context.Background(), "v00", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "V001", found[0].SaleCode)
}
