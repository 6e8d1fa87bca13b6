package model

// Record status for customers, employees, products, suppliers, positions and purchases
const (
	StatusActive    = "A"
	StatusInactive  = "I"
	StatusSuspended = "S"
)

// Sale status
const (
	SaleCompleted = "Completado"
	SalePending   = "Pendiente"
	SaleCancelled = "Cancelado"
)

// Store item status
const (
	ItemAvailable  = "Disponible"
	ItemLowStock   = "Stock Bajo"
	ItemOutOfStock = "Agotado"
	ItemNearExpiry = "Próximo a Vencer"
	ItemInactive   = "Inactivo"
)

// User roles carried in the auth token
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLEADO"
)

// NearExpiryDays is the window in which a store item is considered close to expiring
const NearExpiryDays = 7

// StoreItemLowStockThreshold is the fixed cut-off used by the low stock listing
const StoreItemLowStockThreshold = 15

var (
	recordStatuses   = []string{StatusActive, StatusInactive}
	supplierStatuses = []string{StatusActive, StatusInactive, StatusSuspended}
	saleStatuses     = []string{SaleCompleted, SalePending, SaleCancelled}
	itemStatuses     = []string{ItemAvailable, ItemLowStock, ItemOutOfStock, ItemNearExpiry, ItemInactive}
)

// RecordStatuses lists the statuses of an active/inactive record
func RecordStatuses() []string { return recordStatuses }

// SupplierStatuses lists the supplier statuses
func SupplierStatuses() []string { return supplierStatuses }

// SaleStatuses lists the sale statuses
func SaleStatuses() []string { return saleStatuses }

// StoreItemStatuses lists the store item statuses
func StoreItemStatuses() []string { return itemStatuses }

// IsOneOf reports whether status is in allowed
func IsOneOf(status string, allowed []string) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}
