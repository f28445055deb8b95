package imports

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	appctx "github.com/Ramsey-B/clover/pkg/context"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/importer"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/Ramsey-B/clover/pkg/utils"
)

// ImportResponse is returned for every accepted import batch.
type ImportResponse struct {
	BatchID string              `json:"batch_id"`
	Stats   *models.ImportStats `json:"stats"`
}

// Handler serves import ingestion routes
type Handler struct {
	pipeline     *importer.Pipeline
	emitter      *events.Emitter
	logger       ectologger.Logger
	maxFileBytes int64
}

// NewHandler creates a new import handler
func NewHandler(pipeline *importer.Pipeline, emitter *events.Emitter, logger ectologger.Logger, maxFileBytes int64) *Handler {
	return &Handler{
		pipeline:     pipeline,
		emitter:      emitter,
		logger:       logger,
		maxFileBytes: maxFileBytes,
	}
}

// Register registers import routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.ImportFile)
	g.POST("/rows", h.ImportRows)
}

// ImportFile ingests a CSV or XLSX file uploaded as multipart form data under
// the "file" field
func (h *Handler) ImportFile(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.ImportFile")
	defer span.End()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if h.maxFileBytes > 0 && fileHeader.Size > h.maxFileBytes {
		return httperror.NewHTTPError(http.StatusRequestEntityTooLarge, "file exceeds the maximum allowed size")
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("Failed to open uploaded file")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to read uploaded file")
	}
	defer file.Close()

	rows, err := importer.ParseFile(fileHeader.Filename, file)
	if err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}
	if len(rows) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "file contains no data rows")
	}

	return h.process(c, ctx, "http-file", rows)
}

// ImportRows ingests a JSON payload of denormalized rows
func (h *Handler) ImportRows(c echo.Context) error {
	ctx := c.Request().Context()
	ctx, span := tracing.StartSpan(ctx, "import_handler.ImportRows")
	defer span.End()

	req, err := utils.BindRequest[models.ImportRowsRequest](c)
	if err != nil {
		return err
	}

	return h.process(c, ctx, "http", req.Rows)
}

func (h *Handler) process(c echo.Context, ctx context.Context, source string, rows []models.ImportRow) error {
	batchID := uuid.NewString()
	ctx = appctx.SetBatchID(ctx, batchID)

	metrics.ImportBatchesTotal.WithLabelValues(source).Inc()

	stats := h.pipeline.ProcessBatch(ctx, rows)

	if err := h.emitter.EmitImportCompleted(ctx, batchID, source, stats); err != nil {
		// Data is already committed; the caller still gets the stats.
		h.logger.WithContext(ctx).WithError(err).Error("Failed to emit import completion")
	}

	return c.JSON(http.StatusOK, ImportResponse{
		BatchID: batchID,
		Stats:   stats,
	})
}
