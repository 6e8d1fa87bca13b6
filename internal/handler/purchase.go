package handler

import (
	"context"
	"net/http"

	"backoffice-service/internal/model"
	"backoffice-service/internal/service"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PurchaseService is what the purchase routes need
type PurchaseService interface {
	recordService[model.Purchase, model.PurchaseSummary]
	ListBySupplier(ctx context.Context, supplierID uint) ([]model.Purchase, error)
	Create(ctx context.Context, input service.PurchaseInput) (*model.Purchase, error)
	Update(ctx context.Context, id uint, input service.PurchaseInput) (*model.Purchase, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	NextCode(ctx context.Context) (string, error)
}

// PurchaseHandler serves /v1/api/purchase
type PurchaseHandler struct {
	resource[model.Purchase, model.PurchaseSummary]
	svc     PurchaseService
	reports ReportService
}

func NewPurchaseHandler(svc PurchaseService, reports ReportService) *PurchaseHandler {
	return &PurchaseHandler{
		resource: resource[model.Purchase, model.PurchaseSummary]{entity: "purchase", statuses: model.RecordStatuses(), svc: svc},
		svc:      svc,
		reports:  reports,
	}
}

func (h *PurchaseHandler) Register(g *echo.Group) {
	h.resource.register(g)
	g.GET("/supplier/:id", h.ListBySupplier)
	g.POST("/save", h.Create)
	g.PUT("/update/:id", h.Update)
	g.GET("/exists/code/:value", existsRoute(h.svc.ExistsByCode))
	g.GET("/generate-code", codeRoute(h.svc.NextCode))
	g.GET("/pdf", reportRoute(h.reports.PurchaseReport))
}

func (h *PurchaseHandler) ListBySupplier(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	purchases, err := h.svc.ListBySupplier(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, purchases)
}

func (h *PurchaseHandler) Create(c echo.Context) error {
	var req service.PurchaseInput
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Purchase creation request",
		zap.Uint("supplier_id", req.SupplierID),
		zap.Int("lines", len(req.Details)))

	purchase, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, purchase)
}

func (h *PurchaseHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.PurchaseInput
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	purchase, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, purchase)
}

// PurchaseDetailService is what the purchase line routes need
type PurchaseDetailService interface {
	List(ctx context.Context) ([]model.PurchaseDetail, error)
	Get(ctx context.Context, id uint) (*model.PurchaseDetail, error)
	ListByPurchase(ctx context.Context, purchaseID uint) ([]model.PurchaseDetail, error)
}

// PurchaseDetailHandler serves the read-only /v1/api/purchase-details routes
type PurchaseDetailHandler struct {
	svc PurchaseDetailService
}

func NewPurchaseDetailHandler(svc PurchaseDetailService) *PurchaseDetailHandler {
	return &PurchaseDetailHandler{svc: svc}
}

func (h *PurchaseDetailHandler) Register(g *echo.Group) {
	g.GET("", listRoute(h.svc.List))
	g.GET("/:id", h.Get)
	g.GET("/buy/:buyId", h.ListByPurchase)
}

func (h *PurchaseDetailHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	line, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, line)
}

func (h *PurchaseDetailHandler) ListByPurchase(c echo.Context) error {
	id, err := paramID(c, "buyId")
	if err != nil {
		return respondError(c, err)
	}
	lines, err := h.svc.ListByPurchase(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, lines)
}
