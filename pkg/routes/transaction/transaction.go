package transaction

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/transaction"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Handler serves transaction routes
type Handler struct {
	repo   transaction.TransactionRepository
	logger ectologger.Logger
}

// NewHandler creates a new transaction handler
func NewHandler(repo transaction.TransactionRepository, logger ectologger.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Register registers transaction routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}

// List returns transactions, optionally filtered by invoice_id, platform_id
// and status
func (h *Handler) List(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "transaction_handler.List")
	defer span.End()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var filter transaction.ListFilter
	if raw := c.QueryParam("invoice_id"); raw != "" {
		invoiceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "invalid invoice_id")
		}
		filter.InvoiceID = &invoiceID
	}
	if raw := c.QueryParam("platform_id"); raw != "" {
		platformID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return httperror.NewHTTPError(http.StatusBadRequest, "invalid platform_id")
		}
		filter.PlatformID = &platformID
	}
	filter.Status = c.QueryParam("status")

	items, totalCount, err := h.repo.List(ctx, filter, page, pageSize)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to list transactions")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to list transactions")
	}

	return c.JSON(http.StatusOK, models.TransactionListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// Get returns a transaction by ID
func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "transaction_handler.Get")
	defer span.End()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid transaction id")
	}

	item, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to get transaction")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to get transaction")
	}
	if item == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "transaction not found")
	}

	return c.JSON(http.StatusOK, item)
}
