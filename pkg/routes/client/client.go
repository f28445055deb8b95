package client

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/client"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/utils"
)

// Handler serves client CRUD routes
type Handler struct {
	repo   client.ClientRepository
	logger ectologger.Logger
}

// NewHandler creates a new client handler
func NewHandler(repo client.ClientRepository, logger ectologger.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Register registers client routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Deactivate)
}

// List returns clients with pagination
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "client_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	items, totalCount, err := h.repo.List(ctx, page, pageSize)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list clients")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list clients")
	}

	return c.JSON(http.StatusOK, models.ClientListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Create creates a new client
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "client_handler.Create")
	defer span.End()

	req, err := utils.BindRequest[models.CreateClientRequest](c)
	if err != nil {
		return err
	}

	existing, err := h.repo.GetByCode(ctx, req.ClientCode)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to check for existing client")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create client")
	}
	if existing != nil {
		return httperror.NewHTTPError(http.StatusConflict, "client with this client_code already exists")
	}

	created, err := h.repo.Create(ctx, req)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to create client")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create client")
	}

	return c.JSON(http.StatusCreated, created)
}

// Get returns a client by ID
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "client_handler.Get")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}

	item, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to get client")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get client")
	}
	if item == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "client not found")
	}

	return c.JSON(http.StatusOK, item)
}

// Update updates a client's contact fields
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "client_handler.Update")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}

	req, err := utils.BindRequest[models.UpdateClientRequest](c)
	if err != nil {
		return err
	}

	updated, err := h.repo.Update(ctx, id, req)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to update client")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update client")
	}
	if updated == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "client not found")
	}

	return c.JSON(http.StatusOK, updated)
}

// Deactivate marks a client as inactive
func (h *Handler) Deactivate(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "client_handler.Deactivate")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}

	if err := h.repo.Deactivate(ctx, id); err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to deactivate client")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to deactivate client")
	}

	return c.NoContent(http.StatusNoContent)
}
