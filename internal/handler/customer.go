package handler

import (
	"context"
	"net/http"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CustomerService is what the customer routes need
type CustomerService interface {
	recordService[model.Customer, model.CustomerSummary]
	GetByCode(ctx context.Context, code string) (*model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	Update(ctx context.Context, id uint, changes *model.Customer) (*model.Customer, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByDocument(ctx context.Context, document string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	NextCode(ctx context.Context) (string, error)
}

// CustomerRequest is the body of a customer save or update
type CustomerRequest struct {
	ClientCode     string     `json:"client_code" validate:"omitempty,max=10"`
	DocumentType   string     `json:"document_type" validate:"required,max=3"`
	DocumentNumber string     `json:"document_number" validate:"required,max=20"`
	Name           string     `json:"name" validate:"required,max=100"`
	Surname        string     `json:"surname" validate:"required,max=100"`
	DateBirth      model.Date `json:"date_birth" validate:"required"`
	Phone          string     `json:"phone" validate:"required,max=20"`
	Email          string     `json:"email" validate:"required,email,max=100"`
	LocationID     uint       `json:"location_id" validate:"required"`
	RegisterDate   model.Date `json:"register_date"`
	Status         string     `json:"status" validate:"omitempty,oneof=A I"`
}

func (r CustomerRequest) toModel() *model.Customer {
	return &model.Customer{
		ClientCode:     r.ClientCode,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		Name:           r.Name,
		Surname:        r.Surname,
		DateBirth:      r.DateBirth,
		Phone:          r.Phone,
		Email:          r.Email,
		LocationID:     r.LocationID,
		RegisterDate:   r.RegisterDate,
		Status:         r.Status,
	}
}

// CustomerHandler serves /v1/api/customer
type CustomerHandler struct {
	resource[model.Customer, model.CustomerSummary]
	svc     CustomerService
	reports ReportService
}

func NewCustomerHandler(svc CustomerService, reports ReportService) *CustomerHandler {
	return &CustomerHandler{
		resource: resource[model.Customer, model.CustomerSummary]{entity: "customer", statuses: model.RecordStatuses(), svc: svc},
		svc:      svc,
		reports:  reports,
	}
}

func (h *CustomerHandler) Register(g *echo.Group) {
	h.resource.register(g)
	g.GET("/client-code/:code", h.GetByCode)
	g.POST("/save", h.Create)
	g.PUT("/update/:id", h.Update)
	g.GET("/exists/client-code/:value", existsRoute(h.svc.ExistsByCode))
	g.GET("/exists/document/:value", existsRoute(h.svc.ExistsByDocument))
	g.GET("/exists/email/:value", existsRoute(h.svc.ExistsByEmail))
	g.GET("/generate-code", codeRoute(h.svc.NextCode))
	g.GET("/pdf", reportRoute(h.reports.CustomerReport))
}

func (h *CustomerHandler) GetByCode(c echo.Context) error {
	customer, err := h.svc.GetByCode(c.Request().Context(), pathText(c, "code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CustomerRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	log.Info("Customer creation request",
		zap.String("document_number", req.DocumentNumber),
		zap.String("email", req.Email))

	customer, err := h.svc.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req CustomerRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	customer, err := h.svc.Update(c.Request().Context(), id, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, customer)
}
