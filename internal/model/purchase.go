package model

import "github.com/shopspring/decimal"

// Purchase is a buy from a supplier with its detail lines
type Purchase struct {
	ID           uint             `json:"id" gorm:"primarykey"`
	PurchaseCode string           `json:"purchase_code" gorm:"type:varchar(20);not null;uniqueIndex"`
	SupplierID   uint             `json:"supplier_id" gorm:"not null;index"`
	PurchaseDate Date             `json:"purchase_date" gorm:"not null;index"`
	PaymentType  string           `json:"payment_type" gorm:"type:varchar(50);not null"`
	TotalAmount  decimal.Decimal  `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status       string           `json:"status" gorm:"type:varchar(1);not null;default:A;index"`
	Details      []PurchaseDetail `json:"details" gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// PurchaseDetail is one bought product line
type PurchaseDetail struct {
	ID         uint            `json:"id" gorm:"primarykey"`
	PurchaseID uint            `json:"purchase_id" gorm:"not null;index"`
	ProductID  uint            `json:"product_id" gorm:"not null;index"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitCost   decimal.Decimal `json:"unit_cost" gorm:"type:decimal(10,2);not null"`
	Subtotal   decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
}

// RecalculateTotal refreshes every line subtotal and the purchase total
func (p *Purchase) RecalculateTotal() {
	total := decimal.Zero
	for i := range p.Details {
		d := &p.Details[i]
		d.Subtotal = d.UnitCost.Mul(decimal.NewFromInt(int64(d.Quantity)))
		total = total.Add(d.Subtotal)
	}
	p.TotalAmount = total
}
