package model

import "github.com/shopspring/decimal"

// Employee is a staff member
type Employee struct {
	ID             uint            `json:"id" gorm:"primarykey"`
	EmployeeCode   string          `json:"employee_code" gorm:"type:varchar(20);not null;uniqueIndex"`
	DocumentType   string          `json:"document_type" gorm:"type:varchar(3);not null"`
	DocumentNumber string          `json:"document_number" gorm:"type:varchar(20);not null;uniqueIndex"`
	Name           string          `json:"name" gorm:"type:varchar(100);not null"`
	Surname        string          `json:"surname" gorm:"type:varchar(100);not null"`
	HireDate       Date            `json:"hire_date" gorm:"not null"`
	Phone          string          `json:"phone" gorm:"type:varchar(20)"`
	LocationID     uint            `json:"location_id" gorm:"index"`
	Salary         decimal.Decimal `json:"salary" gorm:"type:decimal(10,2);not null"`
	Email          string          `json:"email" gorm:"type:varchar(100);not null;uniqueIndex"`
	PositionID     uint            `json:"position_id" gorm:"index"`
	Status         string          `json:"status" gorm:"type:varchar(1);not null;default:A;index"`
}
