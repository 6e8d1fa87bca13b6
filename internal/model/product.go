package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry sold through sales
type Product struct {
	ID           uint            `json:"id" gorm:"primarykey"`
	ProductCode  string          `json:"product_code" gorm:"type:varchar(20);not null;uniqueIndex"`
	Name         string          `json:"name" gorm:"type:varchar(100);not null"`
	Category     string          `json:"category" gorm:"type:varchar(50);not null;index"`
	Description  string          `json:"description" gorm:"type:varchar(255)"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock        int             `json:"stock" gorm:"not null;default:0"`
	InitialStock int             `json:"initial_stock" gorm:"not null;default:0"`
	ImageURL     string          `json:"image_url" gorm:"type:varchar(500)"`
	Status       string          `json:"status" gorm:"type:varchar(1);not null;default:A;index"`
}

// TotalStockValue is price times current stock
func (p Product) TotalStockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// IsLowStock reports stock at or below 20% of the initial stock
func (p Product) IsLowStock() bool {
	return p.Stock*5 <= p.InitialStock
}

// IsOutOfStock reports an empty stock
func (p Product) IsOutOfStock() bool {
	return p.Stock <= 0
}

// MarshalJSON adds the derived stock indicators to the stored fields
func (p Product) MarshalJSON() ([]byte, error) {
	type stored Product
	return json.Marshal(struct {
		stored
		TotalStockValue decimal.Decimal `json:"total_stock_value"`
		LowStock        bool            `json:"low_stock"`
		OutOfStock      bool            `json:"out_of_stock"`
	}{
		stored:          stored(p),
		TotalStockValue: p.TotalStockValue(),
		LowStock:        p.IsLowStock(),
		OutOfStock:      p.IsOutOfStock(),
	})
}
