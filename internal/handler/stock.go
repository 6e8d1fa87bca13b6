package handler

import (
	"context"
	"net/http"

	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// stockLedger is the set, add and reduce operations shared by products and store items
type stockLedger[T any] interface {
	SetStock(ctx context.Context, id uint, stock int) (*T, error)
	AddStock(ctx context.Context, id uint, quantity int) (*T, error)
	ReduceStock(ctx context.Context, id uint, quantity int) (*T, error)
}

// registerStock mounts PUT /:id/stock?newStock=, /:id/add-stock?quantity= and /:id/reduce-stock?quantity=
func registerStock[T any](g *echo.Group, ledger stockLedger[T]) {
	g.PUT("/:id/stock", stockRoute("newStock", ledger.SetStock))
	g.PUT("/:id/add-stock", stockRoute("quantity", ledger.AddStock))
	g.PUT("/:id/reduce-stock", stockRoute("quantity", ledger.ReduceStock))
}

func stockRoute[T any](param string, apply func(ctx context.Context, id uint, value int) (*T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		value, err := queryInt(c, param)
		if err != nil {
			return respondError(c, err)
		}
		logger.FromEcho(c).Info("Stock change request",
			zap.Uint("id", id),
			zap.String("path", c.Path()),
			zap.Int(param, value))

		item, err := apply(c.Request().Context(), id, value)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, item)
	}
}
