package handler

import (
	"context"
	"net/http"

	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// recordService is the part every status-flagged entity service shares
type recordService[T, S any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	ListByStatus(ctx context.Context, status string) ([]T, error)
	Search(ctx context.Context, term, status string) ([]T, error)
	Summary(ctx context.Context) (*S, error)
	Delete(ctx context.Context, id uint) (*T, error)
	Restore(ctx context.Context, id uint) (*T, error)
}

// resource serves the uniform routes: list, get, by status, search, summary, soft delete and restore
type resource[T, S any] struct {
	entity   string
	statuses []string
	svc      recordService[T, S]
}

func (r resource[T, S]) register(g *echo.Group) {
	g.GET("", r.list)
	g.GET("/", r.list)
	g.GET("/:id", r.get)
	g.GET("/status/:status", r.byStatus)
	g.GET("/search", r.search)
	g.GET("/summary", r.summary)
	g.PATCH("/delete/:id", r.remove)
	g.PATCH("/restore/:id", r.restore)
}

func (r resource[T, S]) list(c echo.Context) error {
	items, err := r.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Listed records", zap.String("entity", r.entity), zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

func (r resource[T, S]) get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	item, err := r.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

func (r resource[T, S]) byStatus(c echo.Context) error {
	status, err := statusParam(c, r.statuses)
	if err != nil {
		return respondError(c, err)
	}
	items, err := r.svc.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (r resource[T, S]) search(c echo.Context) error {
	term := c.QueryParam("search")
	status := c.QueryParam("status")
	items, err := r.svc.Search(c.Request().Context(), term, status)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Searched records",
		zap.String("entity", r.entity),
		zap.String("search", term),
		zap.String("status", status),
		zap.Int("count", len(items)))
	return c.JSON(http.StatusOK, items)
}

func (r resource[T, S]) summary(c echo.Context) error {
	summary, err := r.svc.Summary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (r resource[T, S]) remove(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	item, err := r.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Record deleted", zap.String("entity", r.entity), zap.Uint("id", id))
	return c.JSON(http.StatusOK, item)
}

func (r resource[T, S]) restore(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	item, err := r.svc.Restore(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Record restored", zap.String("entity", r.entity), zap.Uint("id", id))
	return c.JSON(http.StatusOK, item)
}

// existsRoute answers GET .../exists/<kind>/:value with a JSON boolean
func existsRoute(check func(ctx context.Context, value string) (bool, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		exists, err := check(c.Request().Context(), pathText(c, "value"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, exists)
	}
}

// codeRoute answers GET .../generate-code with the next business code
func codeRoute(next func(ctx context.Context) (string, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		code, err := next(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"code": code})
	}
}

// listRoute answers a parameterless listing
func listRoute[T any](load func(ctx context.Context) ([]T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := load(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, items)
	}
}
