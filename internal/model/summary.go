package model

import "github.com/shopspring/decimal"

// CustomerSummary counts customers by status
type CustomerSummary struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Inactive     int64 `json:"inactive"`
	NewThisMonth int64 `json:"new_this_month"`
}

// EmployeeSummary counts employees and averages active salaries
type EmployeeSummary struct {
	Total         int64           `json:"total"`
	Active        int64           `json:"active"`
	Inactive      int64           `json:"inactive"`
	AverageSalary decimal.Decimal `json:"average_salary"`
}

// PositionSummary is an active position with its active employee count
type PositionSummary struct {
	PositionID uint   `json:"position_id"`
	Name       string `json:"name"`
	Employees  int64  `json:"employees"`
}

// SupplierSummary counts suppliers by status
type SupplierSummary struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Suspended int64 `json:"suspended"`
}

// ProductSummary aggregates the catalog
type ProductSummary struct {
	Total        int64           `json:"total"`
	Available    int64           `json:"available"`
	LowStock     int64           `json:"low_stock"`
	OutOfStock   int64           `json:"out_of_stock"`
	TotalValue   decimal.Decimal `json:"total_value"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// StoreItemSummary aggregates the warehouse inventory
type StoreItemSummary struct {
	Total      int64           `json:"total"`
	LowStock   int64           `json:"low_stock"`
	OutOfStock int64           `json:"out_of_stock"`
	NearExpiry int64           `json:"near_expiry"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// SaleSummary aggregates completed and pending sales
type SaleSummary struct {
	TotalSales decimal.Decimal `json:"total_sales"`
	TodaySales decimal.Decimal `json:"today_sales"`
	Completed  int64           `json:"completed"`
	Pending    int64           `json:"pending"`
}

// PurchaseSummary aggregates purchases
type PurchaseSummary struct {
	Total       int64           `json:"total"`
	Active      int64           `json:"active"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	MonthAmount decimal.Decimal `json:"month_amount"`
}

// RecentSale is a dashboard row for the latest sales
type RecentSale struct {
	ID           uint            `json:"id"`
	SaleCode     string          `json:"sale_code"`
	CustomerName string          `json:"customer_name"`
	SaleDate     Date            `json:"sale_date"`
	Items        int64           `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       string          `json:"status"`
}

// TopProduct is a dashboard row for the best selling products
type TopProduct struct {
	ProductID   uint            `json:"product_id"`
	ProductCode string          `json:"product_code"`
	Name        string          `json:"name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// StockAlert is a dashboard row for low, empty or expiring inventory
type StockAlert struct {
	Source string `json:"source"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Stock  int    `json:"stock"`
	Status string `json:"status"`
}

// Dashboard is the landing page aggregate
type Dashboard struct {
	TodaySalesCount   int64           `json:"today_sales_count"`
	TodaySalesAmount  decimal.Decimal `json:"today_sales_amount"`
	TotalCustomers    int64           `json:"total_customers"`
	TotalEmployees    int64           `json:"total_employees"`
	TotalProducts     int64           `json:"total_products"`
	AvailableProducts int64           `json:"available_products"`
	RecentSales       []RecentSale    `json:"recent_sales"`
	TopProducts       []TopProduct    `json:"top_products"`
	StockAlerts       []StockAlert    `json:"stock_alerts"`
}
