package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var fixedToday = model.NewDate(2024, 3, 15)

func fixedClock() model.Date { return fixedToday }

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Equal(t, expected, actual.StringFixed(2))
}

// memProducts keeps products in memory
type memProducts struct {
	rows map[uint]model.Product
	seq  uint
}

func newMemProducts(products ...model.Product) *memProducts {
	m := &memProducts{rows: map[uint]model.Product{}}
	for _, p := range products {
		if p.ID == 0 {
			p.ID = m.seq + 1
		}
		if p.ID > m.seq {
			m.seq = p.ID
		}
		m.rows[p.ID] = p
	}
	return m
}

func (m *memProducts) sorted(keep func(model.Product) bool) []model.Product {
	out := []model.Product{}
	for _, p := range m.rows {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memProducts) FindAll(ctx context.Context) ([]model.Product, error) {
	return m.sorted(nil), nil
}

func (m *memProducts) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, apperror.NotFound("product %d not found", id)
	}
	return &p, nil
}

func (m *memProducts) FindByCode(ctx context.Context, code string) (*model.Product, error) {
	for _, p := range m.rows {
		if p.ProductCode == code {
			return &p, nil
		}
	}
	return nil, apperror.NotFound("product with product_code %s not found", code)
}

func (m *memProducts) FindByStatus(ctx context.Context, status string) ([]model.Product, error) {
	return m.sorted(func(p model.Product) bool { return p.Status == status }), nil
}

func (m *memProducts) Search(ctx context.Context, term, status string) ([]model.Product, error) {
	term = strings.ToLower(term)
	return m.sorted(func(p model.Product) bool {
		return p.Status == status && strings.Contains(strings.ToLower(p.Name+" "+p.ProductCode), term)
	}), nil
}

func (m *memProducts) Create(ctx context.Context, p *model.Product) error {
	m.seq++
	p.ID = m.seq
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) Save(ctx context.Context, p *model.Product) error {
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) UpdateStatus(ctx context.Context, id uint, status string) error {
	p, ok := m.rows[id]
	if !ok {
		return apperror.NotFound("product %d not found", id)
	}
	p.Status = status
	m.rows[id] = p
	return nil
}

func (m *memProducts) UpdateStock(ctx context.Context, id uint, stock int) error {
	p, ok := m.rows[id]
	if !ok {
		return apperror.NotFound("product %d not found", id)
	}
	p.Stock = stock
	m.rows[id] = p
	return nil
}

func (m *memProducts) TopByStock(ctx context.Context, limit int) ([]model.Product, error) {
	out := m.sorted(func(p model.Product) bool { return p.Status == model.StatusActive })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Stock > out[j].Stock })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memProducts) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	for _, p := range m.rows {
		if p.ProductCode == code && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProducts) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, p := range m.rows {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProducts) LatestCode(ctx context.Context) (string, error) {
	all := m.sorted(nil)
	if len(all) == 0 {
		return "", nil
	}
	return all[len(all)-1].ProductCode, nil
}

func (m *memProducts) stock(id uint) int {
	return m.rows[id].Stock
}

// memSales keeps sales and their lines in memory
type memSales struct {
	rows    map[uint]model.Sale
	seq     uint
	lineSeq uint
}

func newMemSales() *memSales {
	return &memSales{rows: map[uint]model.Sale{}}
}

func copySale(s model.Sale) model.Sale {
	s.Details = append([]model.SaleDetail(nil), s.Details...)
	return s
}

func (m *memSales) sorted(keep func(model.Sale) bool) []model.Sale {
	out := []model.Sale{}
	for _, s := range m.rows {
		if keep == nil || keep(s) {
			out = append(out, copySale(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memSales) FindAll(ctx context.Context) ([]model.Sale, error) {
	return m.sorted(nil), nil
}

func (m *memSales) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, apperror.NotFound("sale %d not found", id)
	}
	s = copySale(s)
	return &s, nil
}

func (m *memSales) FindByStatus(ctx context.Context, status string) ([]model.Sale, error) {
	return m.sorted(func(s model.Sale) bool { return s.Status == status }), nil
}

func (m *memSales) FindByCode(ctx context.Context, code string) (*model.Sale, error) {
	for _, s := range m.rows {
		if s.SaleCode == code {
			s = copySale(s)
			return &s, nil
		}
	}
	return nil, apperror.NotFound("sale with sale_code %s not found", code)
}

func (m *memSales) FindByCustomer(ctx context.Context, customerID uint) ([]model.Sale, error) {
	return m.sorted(func(s model.Sale) bool { return s.CustomerID == customerID }), nil
}

func (m *memSales) FindByEmployee(ctx context.Context, employeeID uint) ([]model.Sale, error) {
	return m.sorted(func(s model.Sale) bool { return s.EmployeeID == employeeID }), nil
}

func (m *memSales) FindByPaymentMethod(ctx context.Context, method string) ([]model.Sale, error) {
	return m.sorted(func(s model.Sale) bool { return s.PaymentMethod == method }), nil
}

func (m *memSales) Search(ctx context.Context, term, status string) ([]model.Sale, error) {
	return m.sorted(func(s model.Sale) bool {
		return s.Status == status && strings.Contains(strings.ToLower(s.SaleCode), strings.ToLower(term))
	}), nil
}

func (m *memSales) Create(ctx context.Context, s *model.Sale) error {
	m.seq++
	s.ID = m.seq
	m.numberLines(s)
	m.rows[s.ID] = copySale(*s)
	return nil
}

// numberLines gives new lines an id, like the database does on insert
func (m *memSales) numberLines(s *model.Sale) {
	for i := range s.Details {
		s.Details[i].SaleID = s.ID
		if s.Details[i].ID == 0 {
			m.lineSeq++
			s.Details[i].ID = m.lineSeq
		}
	}
}

func (m *memSales) Update(ctx context.Context, s *model.Sale) error {
	if _, ok := m.rows[s.ID]; !ok {
		return apperror.NotFound("sale %d not found", s.ID)
	}
	m.numberLines(s)
	m.rows[s.ID] = copySale(*s)
	return nil
}

func (m *memSales) UpdateStatus(ctx context.Context, id uint, status string) error {
	s, ok := m.rows[id]
	if !ok {
		return apperror.NotFound("sale %d not found", id)
	}
	s.Status = status
	m.rows[id] = s
	return nil
}

func (m *memSales) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, s := range m.rows {
		counts[s.Status]++
	}
	return counts, nil
}

func (m *memSales) SumTotal(ctx context.Context, status string, on *model.Date) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range m.rows {
		if s.Status != status || (on != nil && !s.SaleDate.Equal(*on)) {
			continue
		}
		total = total.Add(s.Total)
	}
	return total, nil
}

func (m *memSales) CountOn(ctx context.Context, day model.Date) (int64, error) {
	var count int64
	for _, s := range m.rows {
		if s.SaleDate.Equal(day) {
			count++
		}
	}
	return count, nil
}

func (m *memSales) ExistsByCode(ctx context.Context, code string, excludeID uint) (bool, error) {
	for _, s := range m.rows {
		if s.SaleCode == code && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSales) LatestCode(ctx context.Context) (string, error) {
	all := m.sorted(nil)
	if len(all) == 0 {
		return "", nil
	}
	return all[len(all)-1].SaleCode, nil
}

// finder resolves ids from a fixed set
type finder[T any] struct {
	rows   map[uint]T
	entity string
}

func (f finder[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, apperror.NotFound("%s %d not found", f.entity, id)
	}
	return &row, nil
}

// snapshotTx restores the in-memory tables when fn fails, like a rolled back transaction
type snapshotTx struct {
	products *memProducts
	sales    *memSales
	calls    int
}

func (tx *snapshotTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	products := map[uint]model.Product{}
	for id, p := range tx.products.rows {
		products[id] = p
	}
	productSeq := tx.products.seq
	var sales map[uint]model.Sale
	var saleSeq uint
	if tx.sales != nil {
		sales = map[uint]model.Sale{}
		for id, s := range tx.sales.rows {
			sales[id] = copySale(s)
		}
		saleSeq = tx.sales.seq
	}

	if err := fn(ctx); err != nil {
		tx.products.rows, tx.products.seq = products, productSeq
		if tx.sales != nil {
			tx.sales.rows, tx.sales.seq = sales, saleSeq
		}
		return err
	}
	return nil
}
