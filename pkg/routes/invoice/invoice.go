package invoice

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/invoice"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Handler serves invoice routes
type Handler struct {
	repo   invoice.InvoiceRepository
	logger ectologger.Logger
}

// NewHandler creates a new invoice handler
func NewHandler(repo invoice.InvoiceRepository, logger ectologger.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Register registers invoice routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}

// List returns invoices, optionally filtered by client_id and status
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "invoice_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var filter invoice.ListFilter
	if raw := c.QueryParam("client_id"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "invalid client_id")
		}
		filter.ClientID = &clientID
	}
	filter.Status = c.QueryParam("status")

	items, totalCount, err := h.repo.List(ctx, filter, page, pageSize)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list invoices")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list invoices")
	}

	return c.JSON(http.StatusOK, models.InvoiceListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Get returns an invoice by ID
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "invoice_handler.Get")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid invoice id")
	}

	item, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to get invoice")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get invoice")
	}
	if item == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "invoice not found")
	}

	return c.JSON(http.StatusOK, item)
}
