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

// AuthService issues tokens and registers back-office users
type AuthService interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Register(ctx context.Context, username, password, role string) (*model.User, error)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN EMPLEADO"`
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("Login attempt", zap.String("username", req.Username))

	result, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	user, err := h.svc.Register(c.Request().Context(), req.Username, req.Password, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	logger.FromEcho(c).Info("User registered", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, user)
}
