package handler

import (
	"context"
	"net/http"

	"backoffice-service/internal/model"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DashboardService builds the landing page aggregate
type DashboardService interface {
	Get(ctx context.Context) (*model.Dashboard, error)
}

type DashboardHandler struct {
	svc DashboardService
}

func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Get(c echo.Context) error {
	dashboard, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Dashboard served",
		zap.Int64("today_sales_count", dashboard.TodaySalesCount),
		zap.Int("stock_alerts", len(dashboard.StockAlerts)))
	return c.JSON(http.StatusOK, dashboard)
}
