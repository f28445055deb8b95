package reports

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/reports"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Handler serves reconciliation report routes
type Handler struct {
	service *reports.Service
	logger  ectologger.Logger
}

// NewHandler creates a new reports handler
func NewHandler(service *reports.Service, logger ectologger.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers report routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("/client-totals", h.ClientTotals)
	g.GET("/pending-invoices", h.PendingInvoices)
	g.GET("/transactions-by-platform", h.PlatformTransactions)
}

// ClientTotals returns the total paid per client
func (h *Handler) ClientTotals(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "report_handler.ClientTotals")
	defer span.End()

	report, err := h.service.ClientTotals(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to build client totals report")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to build client totals report")
	}

	return c.JSON(http.StatusOK, report)
}

// PendingInvoices returns unpaid invoices ordered by urgency with their
// transactions nested
func (h *Handler) PendingInvoices(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "report_handler.PendingInvoices")
	defer span.End()

	report, err := h.service.PendingInvoices(ctx)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to build pending invoices report")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to build pending invoices report")
	}

	return c.JSON(http.StatusOK, report)
}

// PlatformTransactions returns transactions grouped by payment platform. The
// optional platform query parameter narrows the report to one platform.
func (h *Handler) PlatformTransactions(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "report_handler.PlatformTransactions")
	defer span.End()

	report, err := h.service.TransactionsByPlatform(ctx, c.QueryParam("platform"))
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to build platform transactions report")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to build platform transactions report")
	}

	return c.JSON(http.StatusOK, report)
}
