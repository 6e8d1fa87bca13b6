package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers groups every controller mounted by RegisterRoutes
type Handlers struct {
	Customer       *CustomerHandler
	Employee       *EmployeeHandler
	Supplier       *SupplierHandler
	Product        *ProductHandler
	StoreItem      *StoreItemHandler
	Sale           *SaleHandler
	Purchase       *PurchaseHandler
	Expense        *ExpenseHandler
	PurchaseDetail *PurchaseDetailHandler
	Lookup         *LookupHandler
	Dashboard      *DashboardHandler
	Auth           *AuthHandler
}

// RegisterRoutes mounts the public routes and the token protected /v1/api and /api groups
func RegisterRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	e.GET("/health", Health)

	authGroup := e.Group("/auth")
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/register", h.Auth.Register)

	api := e.Group("/v1/api", auth)
	h.Customer.Register(api.Group("/customer"))
	h.Employee.Register(api.Group("/employee"))
	h.Supplier.Register(api.Group("/supplier"))
	h.Product.Register(api.Group("/product"))
	h.StoreItem.Register(api.Group("/store-item"))
	h.Sale.Register(api.Group("/sale"))
	h.Purchase.Register(api.Group("/purchase"))
	h.PurchaseDetail.Register(api.Group("/purchase-details"))
	h.Expense.Register(api.Group("/expense"))
	h.Lookup.RegisterLocations(api.Group("/location"))
	h.Lookup.RegisterPositions(api.Group("/position"))

	e.GET("/api/dashboard", h.Dashboard.Get, auth)
}

// Health reports liveness
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
