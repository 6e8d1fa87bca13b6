package handler

import (
	"context"
	"net/http"

	"backoffice-service/internal/report"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReportService renders the PDF reports
type ReportService interface {
	CustomerReport(ctx context.Context) (*report.File, error)
	ProductReport(ctx context.Context) (*report.File, error)
	SaleReport(ctx context.Context) (*report.File, error)
	SaleReceipt(ctx context.Context, id uint) (*report.File, error)
	StoreItemReport(ctx context.Context) (*report.File, error)
	PurchaseReport(ctx context.Context) (*report.File, error)
}

// reportRoute serves a rendered report as a download
func reportRoute(build func(ctx context.Context) (*report.File, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		file, err := build(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return sendFile(c, file)
	}
}

func sendFile(c echo.Context, file *report.File) error {
	logger.FromEcho(c).Info("Sending report", zap.String("file", file.Name), zap.Int("bytes", len(file.Content)))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
	return c.Blob(http.StatusOK, file.ContentType, file.Content)
}
