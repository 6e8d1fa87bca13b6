package handler

import (
	"context"
	"net/http"

	"backoffice-service/internal/model"

	"github.com/labstack/echo/v4"
)

// LocationService is what the location routes need
type LocationService interface {
	List(ctx context.Context) ([]model.Location, error)
	Get(ctx context.Context, id uint) (*model.Location, error)
	Create(ctx context.Context, location *model.Location) (*model.Location, error)
	Update(ctx context.Context, id uint, changes *model.Location) (*model.Location, error)
}

// PositionService is what the position routes need
type PositionService interface {
	List(ctx context.Context) ([]model.Position, error)
	Get(ctx context.Context, id uint) (*model.Position, error)
	ListByStatus(ctx context.Context, status string) ([]model.Position, error)
	Create(ctx context.Context, position *model.Position) (*model.Position, error)
	Update(ctx context.Context, id uint, changes *model.Position) (*model.Position, error)
	Delete(ctx context.Context, id uint) (*model.Position, error)
	Restore(ctx context.Context, id uint) (*model.Position, error)
}

type LocationRequest struct {
	Department string `json:"department" validate:"required,max=100"`
	Province   string `json:"province" validate:"required,max=100"`
	District   string `json:"district" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,max=100"`
}

type PositionRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=200"`
	Status      string `json:"status" validate:"omitempty,oneof=A I"`
}

// LookupHandler serves /v1/api/location and /v1/api/position
type LookupHandler struct {
	locations LocationService
	positions PositionService
}

func NewLookupHandler(locations LocationService, positions PositionService) *LookupHandler {
	return &LookupHandler{locations: locations, positions: positions}
}

func (h *LookupHandler) RegisterLocations(g *echo.Group) {
	g.GET("", listRoute(h.locations.List))
	g.GET("/:id", h.GetLocation)
	g.POST("/save", h.CreateLocation)
	g.PUT("/update/:id", h.UpdateLocation)
}

func (h *LookupHandler) RegisterPositions(g *echo.Group) {
	g.GET("", listRoute(h.positions.List))
	g.GET("/:id", h.GetPosition)
	g.GET("/status/:status", h.PositionsByStatus)
	g.POST("/save", h.CreatePosition)
	g.PUT("/update/:id", h.UpdatePosition)
	g.PATCH("/delete/:id", h.positionStatus(h.positions.Delete))
	g.PATCH("/restore/:id", h.positionStatus(h.positions.Restore))
}

func (h *LookupHandler) GetLocation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	location, err := h.locations.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, location)
}

func (h *LookupHandler) CreateLocation(c echo.Context) error {
	var req LocationRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	location, err := h.locations.Create(c.Request().Context(), &model.Location{
		Department: req.Department, Province: req.Province, District: req.District, Address: req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, location)
}

func (h *LookupHandler) UpdateLocation(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req LocationRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	location, err := h.locations.Update(c.Request().Context(), id, &model.Location{
		Department: req.Department, Province: req.Province, District: req.District, Address: req.Address,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, location)
}

func (h *LookupHandler) GetPosition(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	position, err := h.positions.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, position)
}

func (h *LookupHandler) PositionsByStatus(c echo.Context) error {
	status, err := statusParam(c, model.RecordStatuses())
	if err != nil {
		return respondError(c, err)
	}
	positions, err := h.positions.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *LookupHandler) CreatePosition(c echo.Context) error {
	var req PositionRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	position, err := h.positions.Create(c.Request().Context(), &model.Position{
		Name: req.Name, Description: req.Description, Status: req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, position)
}

func (h *LookupHandler) UpdatePosition(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req PositionRequest
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	position, err := h.positions.Update(c.Request().Context(), id, &model.Position{
		Name: req.Name, Description: req.Description, Status: req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, position)
}

func (h *LookupHandler) positionStatus(apply func(ctx context.Context, id uint) (*model.Position, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		position, err := apply(c.Request().Context(), id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, position)
	}
}
