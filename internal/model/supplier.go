package model

// Supplier provides goods for purchases and store items
type Supplier struct {
	ID           uint   `json:"id" gorm:"primarykey"`
	CompanyName  string `json:"company_name" gorm:"type:varchar(100);not null"`
	ContactName  string `json:"contact_name" gorm:"type:varchar(100);not null"`
	Phone        string `json:"phone" gorm:"type:varchar(20)"`
	Email        string `json:"email" gorm:"type:varchar(100);not null;uniqueIndex"`
	Address      string `json:"address" gorm:"type:varchar(200)"`
	Category     string `json:"category" gorm:"type:varchar(100)"`
	PaymentTerms string `json:"payment_terms" gorm:"type:varchar(100)"`
	LocationID   uint   `json:"location_id" gorm:"index"`
	Status       string `json:"status" gorm:"type:varchar(1);not null;default:A;index"`
}
