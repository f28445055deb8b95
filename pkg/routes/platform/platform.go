package platform

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/platform"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/utils"
)

// Handler serves payment platform routes
type Handler struct {
	repo   platform.PlatformRepository
	logger ectologger.Logger
}

// NewHandler creates a new platform handler
func NewHandler(repo platform.PlatformRepository, logger ectologger.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Register registers platform routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
}

// List returns platforms with pagination
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "platform_handler.List")
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
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list platforms")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list platforms")
	}

	return c.JSON(http.StatusOK, models.PlatformListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Create creates a new platform
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "platform_handler.Create")
	defer span.End()

	req, err := utils.BindRequest[models.CreatePlatformRequest](c)
	if err != nil {
		return err
	}

	existing, err := h.repo.GetByName(ctx, req.Name)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to check for existing platform")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create platform")
	}
	if existing != nil {
		return httperror.NewHTTPError(http.StatusConflict, "platform with this name already exists")
	}

	created, err := h.repo.Create(ctx, req)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to create platform")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to create platform")
	}

	return c.JSON(http.StatusCreated, created)
}

// Get returns a platform by ID
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "platform_handler.Get")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid platform id")
	}

	item, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to get platform")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get platform")
	}
	if item == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "platform not found")
	}

	return c.JSON(http.StatusOK, item)
}
