package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"backoffice-service/internal/apperror"
	"backoffice-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError maps a classified error to its HTTP status and the {"error": ...} body
func respondError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	appErr, ok := apperror.As(err)
	if !ok {
		if he, isHTTP := err.(*echo.HTTPError); isHTTP {
			log.Warn("Request rejected", zap.Int("status", he.Code), zap.Error(err))
			return c.JSON(he.Code, echo.Map{"error": http.StatusText(he.Code)})
		}
		log.Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		log.Warn("Invalid request", zap.String("error", appErr.Message), zap.Any("fields", appErr.Fields))
		body := echo.Map{"error": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
		return c.JSON(http.StatusBadRequest, body)
	case apperror.KindNotFound:
		log.Warn("Resource not found", zap.String("error", appErr.Message))
		return c.JSON(http.StatusNotFound, echo.Map{"error": appErr.Message})
	case apperror.KindConflict:
		log.Warn("Resource conflict", zap.String("error", appErr.Message))
		return c.JSON(http.StatusConflict, echo.Map{"error": appErr.Message})
	case apperror.KindUnauthorized:
		log.Warn("Unauthorized", zap.String("error", appErr.Message))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": appErr.Message})
	case apperror.KindExternal:
		log.Error("External collaborator failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": appErr.Message})
	default:
		log.Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// bindValid decodes the body into req and runs the registered validator
func bindValid(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperror.Validation("invalid request body", nil)
	}
	return c.Validate(req)
}

func paramID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid "+name, map[string]string{name: "must be a positive integer"})
	}
	return uint(id), nil
}

// queryInt reads a required integer query parameter
func queryInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, apperror.Validation("missing "+name, map[string]string{name: "is required"})
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation("invalid "+name, map[string]string{name: "must be an integer"})
	}
	return value, nil
}

// statusParam validates the :status path parameter against the allowed values
func statusParam(c echo.Context, allowed []string) (string, error) {
	status := pathText(c, "status")
	for _, s := range allowed {
		if s == status {
			return status, nil
		}
	}
	return "", apperror.Validation("invalid status", map[string]string{
		"status": "must be one of " + strings.Join(allowed, ", "),
	})
}

// pathText returns an unescaped text path parameter such as a code or an email
func pathText(c echo.Context, name string) string {
	raw := c.Param(name)
	if value, err := url.PathUnescape(raw); err == nil {
		return value
	}
	return raw
}
