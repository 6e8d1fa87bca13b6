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

// EmployeeService is what the employee routes need
type EmployeeService interface {
	recordService[model.Employee, model.EmployeeSummary]
	Create(ctx context.Context, employee *model.Employee) (*model.Employee, error)
	Update(ctx context.Context, id uint, changes *model.Employee) (*model.Employee, error)
	PositionSummary(ctx context.Context) ([]model.PositionSummary, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ExistsByDocument(ctx context.Context, document string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	NextCode(ctx context.Context) (string, error)
}

// EmployeeRequest is the body of an employee save or update
type EmployeeRequest struct {
	EmployeeCode   string          `json:"employee_code" validate:"omitempty,max=20"`
	DocumentType   string          `json:"document_type" validate:"required,max=3"`
	DocumentNumber string          `json:"document_number" validate:"required,max=20"`
	Name           string          `json:"name" validate:"required,max=100"`
	Surname        string          `json:"surname" validate:"required,max=100"`
	HireDate       model.Date      `json:"hire_date"`
	Phone          string          `json:"phone" validate:"omitempty,max=20"`
	LocationID     uint            `json:"location_id" validate:"required"`
	Salary         decimal.Decimal `json:"salary" validate:"gt=0"`
	Email          string          `json:"email" validate:"required,email,max=100"`
	PositionID     uint            `json:"position_id" validate:"required"`
	Status         string          `json:"status" validate:"omitempty,oneof=A I"`
}

func (r EmployeeRequest) toModel() *model.Employee {
	return &model.Employee{
		EmployeeCode:   r.EmployeeCode,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		Name:           r.Name,
		Surname:        r.Surname,
		HireDate:       r.HireDate,
		Phone:          r.Phone,
		LocationID:     r.LocationID,
		Salary:         r.Salary,
		Email:          r.Email,
		PositionID:     r.PositionID,
		Status:         r.Status,
	}
}

// EmployeeHandler serves /v1/api/employee
type EmployeeHandler struct {
	resource[model.Employee, model.EmployeeSummary]
	svc EmployeeService
}

func NewEmployeeHandler(svc EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		resource: resource[model.Employee, model.EmployeeSummary]{entity: "employee", statuses: model.RecordStatuses(), svc: svc},
		svc:      svc,
	}
}

func (h *EmployeeHandler) Register(g *echo.Group) {
	h.resource.register(g)
	g.GET("/position-summary", h.PositionSummary)
	g.POST("/save", h.Create)
	g.PUT("/update/:id", h.Update)
	g.GET("/exists/code/:value", existsRoute(h.svc.ExistsByCode))
	g.GET("/exists/document/:value", existsRoute(h.svc.ExistsByDocument))
	g.GET("/exists/email/:value", existsRoute(h.svc.ExistsByEmail))
	g.GET("/generate-code", codeRoute(h.svc.NextCode))
}

func (h *EmployeeHandler) PositionSummary(c echo.Context) error {
	summary, err := h.svc.PositionSummary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *EmployeeHandler) Create(c echo.Context) error {
	var req EmployeeRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Employee creation request",
		zap.String("document_number", req.DocumentNumber),
		zap.Uint("position_id", req.PositionID))

	employee, err := h.svc.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req EmployeeRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	employee, err := h.svc.Update(c.Request().Context(), id, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, employee)
}
