package report

import (
	"context"
	"database/sql"
	"time"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/prometheus"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CustomerRow is one line of the customer report
type CustomerRow struct {
	ClientCode     string     `db:"client_code"`
	FullName       string     `db:"full_name"`
	DocumentType   string     `db:"document_type"`
	DocumentNumber string     `db:"document_number"`
	Phone          string     `db:"phone"`
	Email          string     `db:"email"`
	RegisterDate   model.Date `db:"register_date"`
}

// ProductRow is one line of the product report
type ProductRow struct {
	ProductCode  string          `db:"product_code"`
	Name         string          `db:"name"`
	Category     string          `db:"category"`
	Price        decimal.Decimal `db:"price"`
	Stock        int             `db:"stock"`
	InitialStock int             `db:"initial_stock"`
}

// SaleRow is one line of the sales report
type SaleRow struct {
	ID            uint            `db:"id"`
	SaleCode      string          `db:"sale_code"`
	SaleDate      model.Date      `db:"sale_date"`
	CustomerName  string          `db:"customer_name"`
	EmployeeName  string          `db:"employee_name"`
	PaymentMethod string          `db:"payment_method"`
	Status        string          `db:"status"`
	Total         decimal.Decimal `db:"total"`
}

// SaleLineRow is one product line of a sale receipt
type SaleLineRow struct {
	ProductCode string          `db:"product_code"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Subtotal    decimal.Decimal `db:"subtotal"`
}

// StoreItemRow is one line of the store inventory report
type StoreItemRow struct {
	ItemCode     string          `db:"item_code"`
	ProductName  string          `db:"product_name"`
	Category     string          `db:"category"`
	CurrentStock int             `db:"current_stock"`
	MinimumStock int             `db:"minimum_stock"`
	Unit         string          `db:"unit"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	ExpiryDate   model.Date      `db:"expiry_date"`
	Status       string          `db:"status"`
}

// PurchaseRow is one line of the purchase report
type PurchaseRow struct {
	PurchaseCode string          `db:"purchase_code"`
	PurchaseDate model.Date      `db:"purchase_date"`
	SupplierName string          `db:"supplier_name"`
	PaymentType  string          `db:"payment_type"`
	TotalAmount  decimal.Decimal `db:"total_amount"`
}

// Source loads report data with plain SQL
type Source struct {
	db *sqlx.DB
}

// NewSource creates a report source over an sqlx connection
func NewSource(db *sqlx.DB) *Source {
	return &Source{db: db}
}

func (s *Source) selectRows(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer prometheus.TrackDBOperation("report")(time.Now())
	return s.db.SelectContext(ctx, dest, s.db.Rebind(query), args...)
}

// Customers returns the active customers by code
func (s *Source) Customers(ctx context.Context) ([]CustomerRow, error) {
	var rows []CustomerRow
	err := s.selectRows(ctx, &rows, `
		SELECT client_code, CONCAT(name, ' ', surname) AS full_name, document_type, document_number,
			COALESCE(phone, '') AS phone, email, register_date
		FROM customers WHERE status = ? ORDER BY client_code`, model.StatusActive)
	return rows, errors.Wrap(err, "load customer report")
}

// Products returns the active products by code
func (s *Source) Products(ctx context.Context) ([]ProductRow, error) {
	var rows []ProductRow
	err := s.selectRows(ctx, &rows, `
		SELECT product_code, name, category, price, stock, initial_stock
		FROM products WHERE status = ? ORDER BY product_code`, model.StatusActive)
	return rows, errors.Wrap(err, "load product report")
}

const saleReportQuery = `
	SELECT sales.id, sales.sale_code, sales.sale_date,
		COALESCE(CONCAT(customers.name, ' ', customers.surname), '') AS customer_name,
		COALESCE(CONCAT(employees.name, ' ', employees.surname), '') AS employee_name,
		sales.payment_method, sales.status, sales.total
	FROM sales
	LEFT JOIN customers ON customers.id = sales.customer_id
	LEFT JOIN employees ON employees.id = sales.employee_id`

// Sales returns every sale, newest first
func (s *Source) Sales(ctx context.Context) ([]SaleRow, error) {
	var rows []SaleRow
	err := s.selectRows(ctx, &rows, saleReportQuery+` ORDER BY sales.sale_date DESC, sales.id DESC`)
	return rows, errors.Wrap(err, "load sale report")
}

// Sale returns one sale header with its product lines
func (s *Source) Sale(ctx context.Context, id uint) (*SaleRow, []SaleLineRow, error) {
	defer prometheus.TrackDBOperation("report")(time.Now())
	var sale SaleRow
	err := s.db.GetContext(ctx, &sale, s.db.Rebind(saleReportQuery+` WHERE sales.id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, apperror.NotFound("sale %d not found", id)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load sale %d", id)
	}

	var lines []SaleLineRow
	err = s.db.SelectContext(ctx, &lines, s.db.Rebind(`
		SELECT products.product_code, products.name AS product_name,
			sale_details.quantity, sale_details.unit_price, sale_details.subtotal
		FROM sale_details
		JOIN products ON products.id = sale_details.product_id
		WHERE sale_details.sale_id = ? ORDER BY sale_details.id`), id)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load lines of sale %d", id)
	}
	return &sale, lines, nil
}

// StoreItems returns every store item that is not inactive
func (s *Source) StoreItems(ctx context.Context) ([]StoreItemRow, error) {
	var rows []StoreItemRow
	err := s.selectRows(ctx, &rows, `
		SELECT item_code, product_name, COALESCE(category, '') AS category, current_stock, minimum_stock,
			COALESCE(unit, '') AS unit, unit_price, expiry_date, status
		FROM store_items WHERE status <> ? ORDER BY item_code`, model.ItemInactive)
	return rows, errors.Wrap(err, "load store item report")
}

// Purchases returns the active purchases, newest first
func (s *Source) Purchases(ctx context.Context) ([]PurchaseRow, error) {
	var rows []PurchaseRow
	err := s.selectRows(ctx, &rows, `
		SELECT purchases.purchase_code, purchases.purchase_date,
			COALESCE(suppliers.company_name, '') AS supplier_name, purchases.payment_type, purchases.total_amount
		FROM purchases
		LEFT JOIN suppliers ON suppliers.id = purchases.supplier_id
		WHERE purchases.status = ? ORDER BY purchases.purchase_date DESC, purchases.id DESC`, model.StatusActive)
	return rows, errors.Wrap(err, "load purchase report")
}
