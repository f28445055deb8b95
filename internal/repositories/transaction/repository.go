package transaction

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

// ListFilter narrows transaction listings.
type ListFilter struct {
	InvoiceID  *int64
	PlatformID *int64
	Status     string
}

// TransactionRepository defines the interface for transaction operations
type TransactionRepository interface {
	Upsert(ctx context.Context, req models.CreateTransactionRequest) (*UpsertResult, error)
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)
	List(ctx context.Context, filter ListFilter, page, pageSize int) ([]models.Transaction, int, error)
}

// Repository implements TransactionRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new transaction repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "transactions"

const selectCols = "id, reference, invoice_id, platform_id, transaction_date, amount, type, status, created_at, updated_at"

// UpsertResult contains the result of an upsert operation
type UpsertResult struct {
	Transaction *models.Transaction
	IsNew       bool
}

// Upsert creates or updates a transaction keyed by reference in one atomic
// statement. Date, amount, type and status are refreshed on conflict; the
// reference is immutable. Joins an open transaction on the context when one
// exists.
func (r *Repository) Upsert(ctx context.Context, req models.CreateTransactionRequest) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "transaction.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":     "Upsert",
		"reference":  req.Reference,
		"invoice_id": req.InvoiceID,
	})

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	txType := req.Type
	if txType == "" {
		txType = models.TransactionTypePayment
	}
	status := req.Status
	if status == "" {
		status = models.TransactionStatusCompleted
	}
	txDate := req.TransactionDate
	if txDate.IsZero() {
		txDate = time.Now().UTC()
	}

	now := time.Now().UTC()

	query := `
		WITH upsert AS (
			INSERT INTO transactions (
				reference, invoice_id, platform_id, transaction_date,
				amount, type, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (reference)
			DO UPDATE SET
				invoice_id = EXCLUDED.invoice_id,
				platform_id = EXCLUDED.platform_id,
				transaction_date = EXCLUDED.transaction_date,
				amount = EXCLUDED.amount,
				type = EXCLUDED.type,
				status = EXCLUDED.status,
				updated_at = EXCLUDED.updated_at
			RETURNING ` + selectCols + `,
				(xmax = 0) AS inserted
		)
		SELECT * FROM upsert
	`

	var result struct {
		models.Transaction
		Inserted bool `db:"inserted"`
	}

	err = tx.GetContext(ctx, &result, query,
		req.Reference, req.InvoiceID, req.PlatformID, txDate,
		req.Amount, txType, status, now, now,
	)
	if err != nil {
		log.WithError(err).Error("Failed to upsert transaction")
		return nil, httperror.NewHTTPErrorf(http.StatusInternalServerError, "failed to upsert transaction %s: %v", req.Reference, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if result.Inserted {
		log.WithFields(map[string]any{"id": result.ID}).Info("Created transaction")
	}

	return &UpsertResult{Transaction: &result.Transaction, IsNew: result.Inserted}, nil
}

// GetByID gets a transaction by surrogate id
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	ctx, span := tracing.StartSpan(ctx, "transaction.Repository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()

	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get transaction by ID")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get transaction")
	}

	return &txn, nil
}

// GetByReference gets a transaction by its natural key
func (r *Repository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	ctx, span := tracing.StartSpan(ctx, "transaction.Repository.GetByReference")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	sb.Where(sb.Equal("reference", reference))

	query, args := sb.Build()

	var txn models.Transaction
	err := r.db.GetContext(ctx, &txn, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get transaction by reference")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get transaction")
	}

	return &txn, nil
}

// List lists transactions with optional invoice, platform and status filters
func (r *Repository) List(ctx context.Context, filter ListFilter, page, pageSize int) ([]models.Transaction, int, error) {
	ctx, span := tracing.StartSpan(ctx, "transaction.Repository.List")
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
	applyFilter(countSb, filter)
	countQuery, countArgs := countSb.Build()

	var totalCount int
	err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count transactions")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count transactions")
	}

	sb := database.NewSelectBuilder()
	sb.Select(selectCols)
	sb.From(tableName)
	applyFilter(sb, filter)
	sb.OrderBy("transaction_date DESC")
	sb.Limit(pageSize)
	sb.Offset(offset)

	query, args := sb.Build()

	var items []models.Transaction
	err = r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list transactions")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list transactions")
	}

	return items, totalCount, nil
}

func applyFilter(sb *database.SelectBuilder, filter ListFilter) {
	if filter.InvoiceID != nil {
		sb.Where(sb.Equal("invoice_id", *filter.InvoiceID))
	}
	if filter.PlatformID != nil {
		sb.Where(sb.Equal("platform_id", *filter.PlatformID))
	}
	if filter.Status != "" {
		sb.Where(sb.Equal("status", filter.Status))
	}
}
