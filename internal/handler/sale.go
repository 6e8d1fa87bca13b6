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

// SaleService is what the sale routes need
type SaleService interface {
	recordService[model.Sale, model.SaleSummary]
	GetByCode(ctx context.Context, code string) (*model.Sale, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]model.Sale, error)
	ListByEmployee(ctx context.Context, employeeID uint) ([]model.Sale, error)
	ListByPaymentMethod(ctx context.Context, method string) ([]model.Sale, error)
	Create(ctx context.Context, input service.SaleInput) (*model.Sale, error)
	Update(ctx context.Context, id uint, input service.SaleInput) (*model.Sale, error)
	RemoveLine(ctx context.Context, saleID, lineID uint) (*model.Sale, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	NextCode(ctx context.Context) (string, error)
}

// SaleHandler serves /v1/api/sale
type SaleHandler struct {
	resource[model.Sale, model.SaleSummary]
	svc     SaleService
	reports ReportService
}

func NewSaleHandler(svc SaleService, reports ReportService) *SaleHandler {
	return &SaleHandler{
		resource: resource[model.Sale, model.SaleSummary]{entity: "sale", statuses: model.SaleStatuses(), svc: svc},
		svc:      svc,
		reports:  reports,
	}
}

func (h *SaleHandler) Register(g *echo.Group) {
	h.resource.register(g)
	g.GET("/code/:code", h.GetByCode)
	g.GET("/customer/:id", h.ListByCustomer)
	g.GET("/employee/:id", h.ListByEmployee)
	g.GET("/payment-method/:method", h.ListByPaymentMethod)
	g.POST("/save", h.Create)
	g.PUT("/update/:id", h.Update)
	g.DELETE("/:id/details/:lineId", h.RemoveLine)
	g.GET("/exists/code/:value", existsRoute(h.svc.ExistsByCode))
	g.GET("/generate-code", codeRoute(h.svc.NextCode))
	g.GET("/pdf", reportRoute(h.reports.SaleReport))
	g.GET("/pdf/:id", h.Receipt)
}

func (h *SaleHandler) GetByCode(c echo.Context) error {
	sale, err := h.svc.GetByCode(c.Request().Context(), pathText(c, "code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) ListByCustomer(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	sales, err := h.svc.ListByCustomer(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) ListByEmployee(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	sales, err := h.svc.ListByEmployee(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) ListByPaymentMethod(c echo.Context) error {
	sales, err := h.svc.ListByPaymentMethod(c.Request().Context(), pathText(c, "method"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) Create(c echo.Context) error {
	var req service.SaleInput
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Sale creation request",
		zap.Uint("customer_id", req.CustomerID),
		zap.Uint("employee_id", req.EmployeeID),
		zap.Int("lines", len(req.Details)))

	sale, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, sale)
}

func (h *SaleHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.SaleInput
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	sale, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

// Receipt renders a single sale as a PDF
func (h *SaleHandler) Receipt(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	file, err := h.reports.SaleReceipt(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, file)
}

// RemoveLine deletes one line of a sale and returns the recomputed sale
func (h *SaleHandler) RemoveLine(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	lineID, err := paramID(c, "lineId")
	if err != nil {
		return respondError(c, err)
	}
	sale, err := h.svc.RemoveLine(c.Request().Context(), id, lineID)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Sale line removed via API", zap.Uint("sale_id", id), zap.Uint("line_id", lineID))
	return c.JSON(http.StatusOK, sale)
}
