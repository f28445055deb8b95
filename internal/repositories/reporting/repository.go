package reporting

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
	"github.com/lib/pq"
)

// ReportingRepository runs the read-only aggregation queries behind the
// report views. All views cover active clients only and take no locks beyond
// default read consistency.
type ReportingRepository interface {
	ClientTotals(ctx context.Context) ([]models.ClientTotalsRow, error)
	PendingInvoices(ctx context.Context) ([]models.PendingInvoiceRow, error)
	PendingInvoiceTransactions(ctx context.Context, invoiceIDs []int64) ([]models.PendingInvoiceTransaction, error)
	TransactionsByPlatform(ctx context.Context, platformName string) ([]models.PlatformTransactionRow, error)
}

// Repository implements ReportingRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new reporting repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ClientTotals sums COMPLETED transaction amounts per active client across
// all of the client's invoices. Clients without completed transactions come
// back with a zero total.
func (r *Repository) ClientTotals(ctx context.Context) ([]models.ClientTotalsRow, error) {
	ctx, span := tracing.StartSpan(ctx, "reporting.Repository.ClientTotals")
	defer span.End()

	query := `
		SELECT
			c.id AS client_id,
			c.client_code,
			c.first_name,
			c.last_name,
			COALESCE(SUM(t.amount) FILTER (WHERE t.status = 'COMPLETED'), 0) AS total_paid,
			COUNT(t.id) FILTER (WHERE t.status = 'COMPLETED') AS completed_count,
			MAX(t.transaction_date) FILTER (WHERE t.status = 'COMPLETED') AS last_transaction_at
		FROM clients c
		LEFT JOIN invoices i ON i.client_id = c.id
		LEFT JOIN transactions t ON t.invoice_id = i.id
		WHERE c.active = TRUE
		GROUP BY c.id, c.client_code, c.first_name, c.last_name
		ORDER BY total_paid DESC, c.client_code ASC
	`

	var rows []models.ClientTotalsRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to query client totals")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to query client totals")
	}

	return rows, nil
}

// PendingInvoices returns every PENDING, PARTIAL or OVERDUE invoice owned by
// an active client. Rows come back in due date order; overdue/due-today
// standing and the final urgency ordering are computed by the reports
// service against the caller's clock.
func (r *Repository) PendingInvoices(ctx context.Context) ([]models.PendingInvoiceRow, error) {
	ctx, span := tracing.StartSpan(ctx, "reporting.Repository.PendingInvoices")
	defer span.End()

	query := `
		SELECT
			i.id AS invoice_id,
			i.invoice_number,
			c.client_code,
			c.first_name,
			c.last_name,
			i.billing_period,
			i.due_date,
			i.total_amount,
			i.paid_amount,
			(i.total_amount - i.paid_amount) AS pending_amount,
			i.status
		FROM invoices i
		JOIN clients c ON c.id = i.client_id
		WHERE c.active = TRUE
		  AND i.status IN ('PENDING', 'PARTIAL', 'OVERDUE')
		ORDER BY i.due_date ASC NULLS LAST, pending_amount DESC
	`

	var rows []models.PendingInvoiceRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to query pending invoices")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to query pending invoices")
	}

	return rows, nil
}

// PendingInvoiceTransactions fetches the transactions to nest under the
// pending invoice rows, in one query for the whole set.
func (r *Repository) PendingInvoiceTransactions(ctx context.Context, invoiceIDs []int64) ([]models.PendingInvoiceTransaction, error) {
	ctx, span := tracing.StartSpan(ctx, "reporting.Repository.PendingInvoiceTransactions")
	defer span.End()

	if len(invoiceIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT
			t.invoice_id,
			t.reference,
			t.amount,
			t.transaction_date,
			t.status,
			p.name AS platform_name
		FROM transactions t
		JOIN platforms p ON p.id = t.platform_id
		WHERE t.invoice_id = ANY($1)
		ORDER BY t.transaction_date DESC
	`

	var rows []models.PendingInvoiceTransaction
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(invoiceIDs)); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to query pending invoice transactions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to query pending invoice transactions")
	}

	return rows, nil
}

// TransactionsByPlatform returns transactions joined with invoice, client and
// platform for active clients, newest first. An empty platformName means all
// platforms.
func (r *Repository) TransactionsByPlatform(ctx context.Context, platformName string) ([]models.PlatformTransactionRow, error) {
	ctx, span := tracing.StartSpan(ctx, "reporting.Repository.TransactionsByPlatform")
	defer span.End()

	query := `
		SELECT
			t.id AS transaction_id,
			t.reference,
			t.transaction_date,
			t.amount,
			t.type,
			t.status,
			p.name AS platform_name,
			i.invoice_number,
			c.client_code,
			c.first_name,
			c.last_name
		FROM transactions t
		JOIN invoices i ON i.id = t.invoice_id
		JOIN clients c ON c.id = i.client_id
		JOIN platforms p ON p.id = t.platform_id
		WHERE c.active = TRUE
	`

	args := []any{}
	if platformName != "" {
		query += " AND p.name = $1"
		args = append(args, platformName)
	}
	query += " ORDER BY t.transaction_date DESC"

	var rows []models.PlatformTransactionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to query transactions by platform")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to query transactions by platform")
	}

	return rows, nil
}
