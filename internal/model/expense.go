package model

import "github.com/shopspring/decimal"

// Expense is an operating expense paid by an employee. Expenses are removed, not soft deleted.
type Expense struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	EmployeeID  uint            `json:"employee_id" gorm:"not null;index"`
	Description string          `json:"description" gorm:"type:varchar(50);not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	ExpenseDate Date            `json:"expense_date" gorm:"not null;index"`
}
