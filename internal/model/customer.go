package model

// Customer is a registered buyer
type Customer struct {
	ID             uint   `json:"id" gorm:"primarykey"`
	ClientCode     string `json:"client_code" gorm:"type:varchar(10);not null;uniqueIndex"`
	DocumentType   string `json:"document_type" gorm:"type:varchar(3);not null"`
	DocumentNumber string `json:"document_number" gorm:"type:varchar(20);not null;uniqueIndex"`
	Name           string `json:"name" gorm:"type:varchar(100);not null"`
	Surname        string `json:"surname" gorm:"type:varchar(100);not null"`
	DateBirth      Date   `json:"date_birth" gorm:"not null"`
	Phone          string `json:"phone" gorm:"type:varchar(20);not null"`
	Email          string `json:"email" gorm:"type:varchar(100);not null;uniqueIndex"`
	LocationID     uint   `json:"location_id" gorm:"index"`
	RegisterDate   Date   `json:"register_date" gorm:"not null"`
	Status         string `json:"status" gorm:"type:varchar(1);not null;default:A;index"`
}

// FullName joins name and surname
func (c Customer) FullName() string {
	if c.Surname == "" {
		return c.Name
	}
	return c.Name + " " + c.Surname
}
