package handler

import (
	"context"
	"net/http"
	"strconv"

	"backoffice-service/internal/apperror"
	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService is what the product routes need
type ProductService interface {
	recordService[model.Product, model.ProductSummary]
	stockLedger[model.Product]
	GetByCode(ctx context.Context, code string) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, id uint, changes *model.Product) (*model.Product, error)
	TopByStock(ctx context.Context, limit int) ([]model.Product, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	NextCode(ctx context.Context) (string, error)
}

// ProductRequest is the body of a product save or update
type ProductRequest struct {
	ProductCode  string          `json:"product_code" validate:"omitempty,max=20"`
	Name         string          `json:"name" validate:"required,max=100"`
	Category     string          `json:"category" validate:"required,max=100"`
	Description  string          `json:"description" validate:"omitempty,max=500"`
	Price        decimal.Decimal `json:"price" validate:"gt=0"`
	InitialStock int             `json:"initial_stock" validate:"gte=0"`
	ImageURL     string          `json:"image_url" validate:"omitempty,max=500"`
	Status       string          `json:"status" validate:"omitempty,oneof=A I"`
}

func (r ProductRequest) toModel() *model.Product {
	return &model.Product{
		ProductCode:  r.ProductCode,
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		Price:        r.Price,
		InitialStock: r.InitialStock,
		ImageURL:     r.ImageURL,
		Status:       r.Status,
	}
}

// ProductHandler serves /v1/api/product
type ProductHandler struct {
	resource[model.Product, model.ProductSummary]
	svc     ProductService
	reports ReportService
}

func NewProductHandler(svc ProductService, reports ReportService) *ProductHandler {
	return &ProductHandler{
		resource: resource[model.Product, model.ProductSummary]{entity: "product", statuses: model.RecordStatuses(), svc: svc},
		svc:      svc,
		reports:  reports,
	}
}

func (h *ProductHandler) Register(g *echo.Group) {
	h.resource.register(g)
	registerStock[model.Product](g, h.svc)
	g.GET("/code/:code", h.GetByCode)
	g.GET("/top-stock", h.TopByStock)
	g.POST("/save", h.Create)
	g.PUT("/update/:id", h.Update)
	g.GET("/exists/code/:value", existsRoute(h.svc.ExistsByCode))
	g.GET("/exists/name/:value", existsRoute(h.svc.ExistsByName))
	g.GET("/generate-code", codeRoute(h.svc.NextCode))
	g.GET("/pdf", reportRoute(h.reports.ProductReport))
}

func (h *ProductHandler) GetByCode(c echo.Context) error {
	product, err := h.svc.GetByCode(c.Request().Context(), pathText(c, "code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// TopByStock lists the products with the highest stock; limit is optional
func (h *ProductHandler) TopByStock(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return respondError(c, apperror.Validation("invalid limit", map[string]string{"limit": "must be a non-negative integer"}))
		}
		limit = parsed
	}
	products, err := h.svc.TopByStock(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req ProductRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Product creation request",
		zap.String("product_code", req.ProductCode),
		zap.String("name", req.Name),
		zap.String("price", req.Price.String()),
		zap.Int("initial_stock", req.InitialStock))

	product, err := h.svc.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req ProductRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.svc.Update(c.Request().Context(), id, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}
