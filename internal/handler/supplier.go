package handler

import (
	"context"
	"net/http"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SupplierService is what the supplier routes need
type SupplierService interface {
	recordService[model.Supplier, model.SupplierSummary]
	Create(ctx context.Context, supplier *model.Supplier) (*model.Supplier, error)
	Update(ctx context.Context, id uint, changes *model.Supplier) (*model.Supplier, error)
	Suspend(ctx context.Context, id uint) (*model.Supplier, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SupplierRequest is the body of a supplier save or update
type SupplierRequest struct {
	CompanyName  string `json:"company_name" validate:"required,max=100"`
	ContactName  string `json:"contact_name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	Email        string `json:"email" validate:"required,email,max=100"`
	Address      string `json:"address" validate:"omitempty,max=200"`
	Category     string `json:"category" validate:"required,max=100"`
	PaymentTerms string `json:"payment_terms" validate:"required,max=100"`
	LocationID   uint   `json:"location_id" validate:"required"`
	Status       string `json:"status" validate:"omitempty,oneof=A I S"`
}

func (r SupplierRequest) toModel() *model.Supplier {
	return &model.Supplier{
		CompanyName:  r.CompanyName,
		ContactName:  r.ContactName,
		Phone:        r.Phone,
		Email:        r.Email,
		Address:      r.Address,
		Category:     r.Category,
		PaymentTerms: r.PaymentTerms,
		LocationID:   r.LocationID,
		Status:       r.Status,
	}
}

// SupplierHandler serves /v1/api/supplier
type SupplierHandler struct {
	resource[model.Supplier, model.SupplierSummary]
	svc SupplierService
}

func NewSupplierHandler(svc SupplierService) *SupplierHandler {
	return &SupplierHandler{
		resource: resource[model.Supplier, model.SupplierSummary]{entity: "supplier", statuses: model.SupplierStatuses(), svc: svc},
		svc:      svc,
	}
}

func (h *SupplierHandler) Register(g *echo.Group) {
	h.resource.register(g)
	g.GET("/all", h.list)
	g.POST("/save", h.Create)
	g.PUT("/update/:id", h.Update)
	g.PATCH("/suspend/:id", h.Suspend)
	g.GET("/exists/email/:value", existsRoute(h.svc.ExistsByEmail))
}

func (h *SupplierHandler) Create(c echo.Context) error {
	var req SupplierRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Supplier creation request",
		zap.String("company_name", req.CompanyName),
		zap.String("email", req.Email))

	supplier, err := h.svc.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req SupplierRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	supplier, err := h.svc.Update(c.Request().Context(), id, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) Suspend(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	supplier, err := h.svc.Suspend(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Supplier suspended", zap.Uint("supplier_id", id))
	return c.JSON(http.StatusOK, supplier)
}
