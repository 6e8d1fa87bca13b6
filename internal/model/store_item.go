package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// StoreItem is a warehouse inventory record, tracked apart from the product catalog
type StoreItem struct {
	ID           uint            `json:"id" gorm:"primarykey"`
	ItemCode     string          `json:"item_code" gorm:"type:varchar(20);not null;uniqueIndex"`
	ProductName  string          `json:"product_name" gorm:"type:varchar(100);not null"`
	Category     string          `json:"category" gorm:"type:varchar(50)"`
	CurrentStock int             `json:"current_stock" gorm:"not null;default:0"`
	MinimumStock int             `json:"minimum_stock" gorm:"not null;default:0"`
	Unit         string          `json:"unit" gorm:"type:varchar(20)"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	SupplierID   *uint           `json:"supplier_id" gorm:"index"`
	ExpiryDate   *Date           `json:"expiry_date"`
	Location     string          `json:"location" gorm:"type:varchar(100)"`
	Status       string          `json:"status" gorm:"type:varchar(20);not null;index"`
}

// IsOutOfStock reports an empty stock
func (s StoreItem) IsOutOfStock() bool {
	return s.CurrentStock <= 0
}

// IsLowStock reports stock at or below the minimum
func (s StoreItem) IsLowStock() bool {
	return s.CurrentStock <= s.MinimumStock
}

// IsNearExpiry reports an expiry date earlier than today plus the near expiry window
func (s StoreItem) IsNearExpiry(today Date) bool {
	return s.ExpiryDate != nil && !s.ExpiryDate.IsZero() && s.ExpiryDate.Before(today.AddDays(NearExpiryDays))
}

// TotalValue is unit price times current stock
func (s StoreItem) TotalValue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.CurrentStock)))
}

// DeriveStoreItemStatus picks the single stored status; the first match wins:
// out of stock, low stock, near expiry, available.
func DeriveStoreItemStatus(item StoreItem, today Date) string {
	switch {
	case item.IsOutOfStock():
		return ItemOutOfStock
	case item.IsLowStock():
		return ItemLowStock
	case item.IsNearExpiry(today):
		return ItemNearExpiry
	default:
		return ItemAvailable
	}
}

// RefreshStatus re-derives the status unless the item is soft deleted
func (s *StoreItem) RefreshStatus(today Date) {
	if s.Status == ItemInactive {
		return
	}
	s.Status = DeriveStoreItemStatus(*s, today)
}

// MarshalJSON adds the independent stock predicates to the stored fields
func (s StoreItem) MarshalJSON() ([]byte, error) {
	type stored StoreItem
	return json.Marshal(struct {
		stored
		OutOfStock bool            `json:"out_of_stock"`
		LowStock   bool            `json:"low_stock"`
		NearExpiry bool            `json:"near_expiry"`
		TotalValue decimal.Decimal `json:"total_value"`
	}{
		stored:     stored(s),
		OutOfStock: s.IsOutOfStock(),
		LowStock:   s.IsLowStock(),
		NearExpiry: s.IsNearExpiry(Today()),
		TotalValue: s.TotalValue(),
	})
}
