package model

// Location is the ubigeo lookup shared by customers, employees and suppliers
type Location struct {
	ID         uint   `json:"id" gorm:"primarykey"`
	Department string `json:"department" gorm:"type:varchar(100);not null;uniqueIndex:idx_location_ubigeo"`
	Province   string `json:"province" gorm:"type:varchar(100);not null;uniqueIndex:idx_location_ubigeo"`
	District   string `json:"district" gorm:"type:varchar(100);not null;uniqueIndex:idx_location_ubigeo"`
	Address    string `json:"address" gorm:"type:varchar(100);not null"`
}

// Position is an employee job position
type Position struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Description string `json:"description" gorm:"type:varchar(200)"`
	Status      string `json:"status" gorm:"type:varchar(1);not null;default:A;index"`
}
