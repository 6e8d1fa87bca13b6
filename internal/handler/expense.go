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

// ExpenseService is what the expense routes need
type ExpenseService interface {
	List(ctx context.Context) ([]model.Expense, error)
	Get(ctx context.Context, id uint) (*model.Expense, error)
	Create(ctx context.Context, expense *model.Expense) (*model.Expense, error)
	Update(ctx context.Context, id uint, changes *model.Expense) (*model.Expense, error)
	Delete(ctx context.Context, id uint) error
}

type ExpenseRequest struct {
	EmployeeID  uint            `json:"employee_id" validate:"required"`
	Description string          `json:"description" validate:"required,max=50"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	ExpenseDate model.Date      `json:"expense_date"`
}

func (r ExpenseRequest) toModel() *model.Expense {
	return &model.Expense{
		EmployeeID:  r.EmployeeID,
		Description: r.Description,
		Amount:      r.Amount,
		ExpenseDate: r.ExpenseDate,
	}
}

// ExpenseHandler serves /v1/api/expense
type ExpenseHandler struct {
	svc ExpenseService
}

func NewExpenseHandler(svc ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

func (h *ExpenseHandler) Register(g *echo.Group) {
	g.GET("", listRoute(h.svc.List))
	g.GET("/:id", h.Get)
	g.POST("/save", h.Create)
	g.PUT("/update/:id", h.Update)
	g.DELETE("/delete/:id", h.Delete)
}

func (h *ExpenseHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	expense, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ExpenseRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	expense, err := h.svc.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	log.Info("Expense saved", zap.Uint("expense_id", expense.ID))
	return c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req ExpenseRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	expense, err := h.svc.Update(c.Request().Context(), id, req.toModel())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
