package invoice

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// ListFilter narrows invoice listings.
type ListFilter struct {
	ClientID *int64
	Status   string
}

// InvoiceRepository defines the interface for invoice operations
type InvoiceRepository interface {
	Upsert(ctx context.Context, req models.CreateInvoiceRequest) (*UpsertResult, error)
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*models.Invoice, error)
	List(ctx context.Context, filter ListFilter, page, pageSize int) ([]models.Invoice, int, error)
}

// Repository implements InvoiceRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new invoice repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "invoices"

const selectCols = "id, invoice_number, client_id, billing_period, due_date, total_amount, paid_amount, status, created_at, updated_at"

// UpsertResult contains the result of an upsert operation
type UpsertResult struct {
	Invoice *models.Invoice
	IsNew   bool
}

// Upsert creates or updates an invoice keyed by invoice_number in one atomic
// statement. Billing, amount and status fields are refreshed on conflict; the
// invoice number is immutable. Joins an open transaction on the context when
// one exists.
func (r *Repository) Upsert(ctx context.Context, req models.CreateInvoiceRequest) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "invoice.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":         "Upsert",
		"invoice_number": req.InvoiceNumber,
		"client_id":      req.ClientID,
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	status := req.Status
	if status == "" {
		status = models.InvoiceStatusPending
	}

	now := time.Now().UTC()

	query := `
		WITH upsert AS (
			INSERT INTO invoices (
				invoice_number, client_id, billing_period, due_date,
				total_amount, paid_amount, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (invoice_number)
			DO UPDATE SET
				client_id = EXCLUDED.client_id,
				billing_period = EXCLUDED.billing_period,
				due_date = COALESCE(EXCLUDED.due_date, invoices.due_date),
				total_amount = EXCLUDED.total_amount,
				paid_amount = EXCLUDED.paid_amount,
				status = EXCLUDED.status,
				updated_at = EXCLUDED.updated_at
			RETURNING ` + selectCols + `,
				(xmax = 0) AS inserted
		)
		SELECT * FROM upsert
	`

	var result struct {
		models.Invoice
		Inserted bool `db:"inserted"`
	}

	err = tx.GetContext(ctx, &result, query,
		req.InvoiceNumber, req.ClientID, req.BillingPeriod, req.DueDate,
		req.TotalAmount, req.PaidAmount, status, now, now,
	)
	if err != nil {
		log.WithError(err).Error("Failed to upsert invoice")
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to upsert invoice %s: %v", req.InvoiceNumber, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if result.Inserted {
		log.WithFields(map[string]any{"id": result.ID}).Info("Created invoice")
	}

	return &UpsertResult{Invoice: &result.Invoice, IsNew: result.Inserted}, nil
}

// GetByID gets an invoice by surrogate id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	ctx, span := tracing.StartSpan(ctx, "invoice.Repository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var inv models.Invoice
	err := r.db.GetContext(ctx, &inv, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get invoice by ID")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get invoice")
	}

	return &inv, nil
}

// GetByNumber gets an invoice by its natural key
func (r *Repository) GetByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	ctx, span := tracing.StartSpan(ctx, "invoice.Repository.GetByNumber")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.Where(sb.Equal("invoice_number", number))

	query, args := sb.Build()

	var inv models.Invoice
	err := r.db.GetContext(ctx, &inv, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get invoice by number")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get invoice")
	}

	return &inv, nil
}

// List lists invoices with optional client and status filters
func (r *Repository) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]models.Invoice, int, error) {
	ctx, span := tracing.StartSpan(ctx, "invoice.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	countSb := database.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From(tableName)
	if filter.ClientID != nil {
		countSb.Where(countSb.Equal("client_id", *filter.ClientID))
	}
	if filter.Status != "" {
		countSb.Where(countSb.Equal("status", filter.Status))
	}
	countQuery, countArgs := countSb.Build()

	var totalCount int
	err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count invoices")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count invoices")
	}

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	if filter.ClientID != nil {
		sb.Where(sb.Equal("client_id", *filter.ClientID))
	}
	if filter.Status != "" {
		sb.Where(sb.Equal("status", filter.Status))
	}
	sb.OrderBy("invoice_number ASC")
	sb.Limit(pageSize)
	sb.Offset(offset)

	query, args := sb.Build()

	var items []models.Invoice
	err = r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list invoices")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list invoices")
	}

	return items, totalCount, nil
}
