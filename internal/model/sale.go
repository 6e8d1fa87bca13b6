package model

import "github.com/shopspring/decimal"

// Sale is the header of a sale aggregate; it owns its detail lines
type Sale struct {
	ID            uint            `json:"id" gorm:"primarykey"`
	SaleCode      string          `json:"sale_code" gorm:"type:varchar(20);not null;uniqueIndex"`
	CustomerID    uint            `json:"customer_id" gorm:"not null;index"`
	EmployeeID    uint            `json:"employee_id" gorm:"not null;index"`
	SaleDate      Date            `json:"sale_date" gorm:"not null;index"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(50);not null"`
	Status        string          `json:"status" gorm:"type:varchar(20);not null;index"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Details       []SaleDetail    `json:"details" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleDetail is one line of a sale; UnitPrice is a snapshot taken at sale time
type SaleDetail struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	SaleID    uint            `json:"sale_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
}

// NewSaleDetail builds a line with its subtotal computed
func NewSaleDetail(productID uint, quantity int, unitPrice decimal.Decimal) SaleDetail {
	detail := SaleDetail{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice}
	detail.Recalculate()
	return detail
}

// Recalculate sets subtotal to quantity times unit price
func (d *SaleDetail) Recalculate() {
	d.Subtotal = d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// AddDetail attaches a line and refreshes the total
func (s *Sale) AddDetail(detail SaleDetail) {
	detail.SaleID = s.ID
	detail.Recalculate()
	s.Details = append(s.Details, detail)
	s.RecalculateTotal()
}

// RemoveDetail drops the line at index and refreshes the total
func (s *Sale) RemoveDetail(index int) {
	if index < 0 || index >= len(s.Details) {
		return
	}
	s.Details = append(s.Details[:index], s.Details[index+1:]...)
	s.RecalculateTotal()
}

// ClearDetails discards every line and zeroes the total
func (s *Sale) ClearDetails() {
	s.Details = nil
	s.RecalculateTotal()
}

// RecalculateTotal sums the subtotals of the attached lines
func (s *Sale) RecalculateTotal() {
	total := decimal.Zero
	for i := range s.Details {
		s.Details[i].Recalculate()
		total = total.Add(s.Details[i].Subtotal)
	}
	s.Total = total
}

// ItemCount is the number of units sold across all lines
func (s Sale) ItemCount() int {
	count := 0
	for _, d := range s.Details {
		count += d.Quantity
	}
	return count
}
