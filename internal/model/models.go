package model

// AllModels lists every table managed by migrations, parents first
func AllModels() []interface{} {
	return []interface{}{
		&Location{},
		&Position{},
		&User{},
		&Customer{},
		&Employee{},
		&Supplier{},
		&Product{},
		&StoreItem{},
		&Sale{},
		&SaleDetail{},
		&Purchase{},
		&PurchaseDetail{},
		&Expense{},
	}
}
