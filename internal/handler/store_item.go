package handler

import (
	"context"
	"net/http"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StoreItemService is what the store item routes need
type StoreItemService interface {
	recordService[model.StoreItem, model.StoreItemSummary]
	stockLedger[model.StoreItem]
	Create(ctx context.Context, item *model.StoreItem) (*model.StoreItem, error)
	Update(ctx context.Context, id uint, changes *model.StoreItem) (*model.StoreItem, error)
	LowStock(ctx context.Context) ([]model.StoreItem, error)
	OutOfStock(ctx context.Context) ([]model.StoreItem, error)
	NearExpiry(ctx context.Context) ([]model.StoreItem, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByProductName(ctx context.Context, name string) (bool, error)
	NextCode(ctx context.Context) (string, error)
}

// StoreItemRequest is the body of a store item save or update; the status is always derived
type StoreItemRequest struct {
	ItemCode     string          `json:"item_code" validate:"omitempty,max=20"`
	ProductName  string          `json:"product_name" validate:"required,max=100"`
	Category     string          `json:"category" validate:"required,max=100"`
	CurrentStock int             `json:"current_stock" validate:"gte=0"`
	MinimumStock int             `json:"minimum_stock" validate:"gte=0"`
	Unit         string          `json:"unit" validate:"required,max=20"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gt=0"`
	SupplierID   *uint           `json:"supplier_id"`
	ExpiryDate   *model.Date     `json:"expiry_date"`
	Location     string          `json:"location" validate:"omitempty,max=200"`
}

func (r StoreItemRequest) toModel() *model.StoreItem {
	return &model.StoreItem{
		ItemCode:     r.ItemCode,
		ProductName:  r.ProductName,
		Category:     r.Category,
		CurrentStock: r.CurrentStock,
		MinimumStock: r.MinimumStock,
		Unit:         r.Unit,
		UnitPrice:    r.UnitPrice,
		SupplierID:   r.SupplierID,
		ExpiryDate:   r.ExpiryDate,
		Location:     r.Location,
	}
}

// StoreItemHandler serves /v1/api/store-item
type StoreItemHandler struct {
	resource[model.StoreItem, model.StoreItemSummary]
	svc     StoreItemService
	reports ReportService
}

func NewStoreItemHandler(svc StoreItemService, reports ReportService) *StoreItemHandler {
	return &StoreItemHandler{
		resource: resource[model.StoreItem, model.StoreItemSummary]{entity: "store_item", statuses: model.StoreItemStatuses(), svc: svc},
		svc:      svc,
		reports:  reports,
	}
}

func (h *StoreItemHandler) Register(g *echo.Group) {
	h.resource.register(g)
	registerStock[model.StoreItem](g, h.svc)
	g.GET("/low-stock", listRoute(h.svc.LowStock))
	g.GET("/out-of-stock", listRoute(h.svc.OutOfStock))
	g.GET("/near-expiry", listRoute(h.svc.NearExpiry))
	g.POST("/save", h.Create)
	g.PUT("/update/:id", h.Update)
	g.GET("/exists/code/:value", existsRoute(h.svc.ExistsByCode))
	g.GET("/exists/name/:value", existsRoute(h.svc.ExistsByProductName))
	g.GET("/generate-code", codeRoute(h.svc.NextCode))
	g.GET("/pdf", reportRoute(h.reports.StoreItemReport))
}

func (h *StoreItemHandler) Create(c echo.Context) error {
	var req StoreItemRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Store item creation request",
		zap.String("item_code", req.ItemCode),
		zap.String("product_name", req.ProductName),
		zap.Int("current_stock", req.CurrentStock))

	item, err := h.svc.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *StoreItemHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req StoreItemRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.svc.Update(c.Request().Context(), id, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}
