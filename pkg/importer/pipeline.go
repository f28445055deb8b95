// Package importer reconciles denormalized billing rows into the normalized
// client/invoice/platform/transaction model.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"

	clientrepo "github.com/Ramsey-B/clover/internal/repositories/client"
	invoicerepo "github.com/Ramsey-B/clover/internal/repositories/invoice"
	platformrepo "github.com/Ramsey-B/clover/internal/repositories/platform"
	transactionrepo "github.com/Ramsey-B/clover/internal/repositories/transaction"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Resolver interfaces cover the one upsert per entity kind the pipeline
// needs, so tests can substitute fakes for the repositories.
type ClientResolver interface {
	Upsert(ctx context.Context, req models.CreateClientRequest) (*clientrepo.UpsertResult, error)
}

type InvoiceResolver interface {
	Upsert(ctx context.Context, req models.CreateInvoiceRequest) (*invoicerepo.UpsertResult, error)
}

type PlatformResolver interface {
	Upsert(ctx context.Context, req models.CreatePlatformRequest) (*platformrepo.UpsertResult, error)
}

type TransactionResolver interface {
	Upsert(ctx context.Context, req models.CreateTransactionRequest) (*transactionrepo.UpsertResult, error)
}

// Pipeline reconciles rows one at a time, each row inside its own scoped
// transaction: validate, then resolve client, invoice, platform and
// transaction. A failed row rolls back, contributes an error message and the
// batch continues.
type Pipeline struct {
	db           database.DB
	clients      ClientResolver
	invoices     InvoiceResolver
	platforms    PlatformResolver
	transactions TransactionResolver
	logger       ectologger.Logger
}

// NewPipeline creates a reconciliation pipeline over the given resolvers.
func NewPipeline(
	db database.DB,
	clients ClientResolver,
	invoices InvoiceResolver,
	platforms PlatformResolver,
	transactions TransactionResolver,
	logger ectologger.Logger,
) *Pipeline {
	return &Pipeline{
		db:           db,
		clients:      clients,
		invoices:     invoices,
		platforms:    platforms,
		transactions: transactions,
		logger:       logger,
	}
}

// ProcessBatch runs the full row set strictly in input order and returns the
// accounting. No error aborts the batch; every failure is downgraded to a
// row-scoped message. Rows are numbered from 2 to match the human-visible
// line numbers of the source file (line 1 is the header).
func (p *Pipeline) ProcessBatch(ctx context.Context, rows []models.ImportRow) *models.ImportStats {
	ctx, span := tracing.StartSpan(ctx, "importer.Pipeline.ProcessBatch")
	defer span.End()

	start := time.Now()
	stats := &models.ImportStats{Errors: []string{}}

	for i, row := range rows {
		rowNumber := i + 2

		if defects := Validate(row, rowNumber); len(defects) > 0 {
			stats.Errors = append(stats.Errors, defects...)
			metrics.ImportRowsTotal.WithLabelValues("invalid").Inc()
			continue
		}

		if err := p.processRow(ctx, row, stats); err != nil {
			stats.Errors = append(stats.Errors, fmt.Sprintf("Row %d: %s", rowNumber, err.Error()))
			metrics.ImportRowsTotal.WithLabelValues("failed").Inc()
			continue
		}

		metrics.ImportRowsTotal.WithLabelValues("ok").Inc()
	}

	metrics.ImportBatchDuration.Observe(time.Since(start).Seconds())

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"rows":                 len(rows),
		"clients_created":      stats.ClientsCreated,
		"invoices_created":     stats.InvoicesCreated,
		"transactions_created": stats.TransactionsCreated,
		"errors":               len(stats.Errors),
		"duration":             time.Since(start),
	}).Info("Processed import batch")

	return stats
}

// processRow performs the four resolve/create steps inside one transaction.
// On any failure the transaction rolls back and the counter increments made
// for this row are reverted, so the stats only reflect committed work.
func (p *Pipeline) processRow(ctx context.Context, row models.ImportRow, stats *models.ImportStats) (err error) {
	ctx, span := tracing.StartSpan(ctx, "importer.Pipeline.processRow")
	defer span.End()

	snapshot := *stats

	ctx, tx, err := p.db.GetTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			*stats = snapshot
		}
	}()

	clientResult, err := p.clients.Upsert(ctx, clientRequestFromRow(row))
	if err != nil {
		return err
	}
	stats.ClientsProcessed++
	if clientResult.IsNew {
		stats.ClientsCreated++
	} else {
		stats.ClientsUpdated++
	}

	invoiceResult, err := p.invoices.Upsert(ctx, invoiceRequestFromRow(row, clientResult.Client.ID))
	if err != nil {
		return err
	}
	stats.InvoicesProcessed++
	if invoiceResult.IsNew {
		stats.InvoicesCreated++
	} else {
		stats.InvoicesUpdated++
	}

	// Platform creation is incidental; it carries no counters.
	platformResult, err := p.platforms.Upsert(ctx, models.CreatePlatformRequest{
		Name: row.Get(models.FieldPlatformName),
	})
	if err != nil {
		return err
	}

	transactionResult, err := p.transactions.Upsert(ctx, transactionRequestFromRow(row, invoiceResult.Invoice.ID, platformResult.Platform.ID))
	if err != nil {
		return err
	}
	stats.TransactionsProcessed++
	if transactionResult.IsNew {
		stats.TransactionsCreated++
	} else {
		stats.TransactionsUpdated++
	}

	return tx.Commit(ctx)
}

func clientRequestFromRow(row models.ImportRow) models.CreateClientRequest {
	return models.CreateClientRequest{
		ClientCode: row.Get(models.FieldClientCode),
		FirstName:  row.Get(models.FieldFirstName),
		LastName:   row.Get(models.FieldLastName),
		Email:      optionalField(row, models.FieldEmail),
		Phone:      optionalField(row, models.FieldPhone),
		Address:    optionalField(row, models.FieldAddress),
		City:       optionalField(row, models.FieldCity),
		Department: optionalField(row, models.FieldDepartment),
	}
}

func invoiceRequestFromRow(row models.ImportRow, clientID int64) models.CreateInvoiceRequest {
	period := row.Get(models.FieldBillingPeriod)
	return models.CreateInvoiceRequest{
		InvoiceNumber: row.Get(models.FieldInvoiceNumber),
		ClientID:      clientID,
		BillingPeriod: period,
		DueDate:       dueDateFromPeriod(period),
		TotalAmount:   amountField(row, models.FieldTotalAmount),
		PaidAmount:    amountField(row, models.FieldPaidAmount),
		Status:        row.Get(models.FieldInvoiceStatus),
	}
}

func transactionRequestFromRow(row models.ImportRow, invoiceID, platformID int64) models.CreateTransactionRequest {
	return models.CreateTransactionRequest{
		Reference:       row.Get(models.FieldTransactionRef),
		InvoiceID:       invoiceID,
		PlatformID:      platformID,
		TransactionDate: parseTransactionDate(row.Get(models.FieldTransactionDate)),
		Amount:          amountField(row, models.FieldTransactionAmount),
		Type:            row.Get(models.FieldTransactionType),
		Status:          row.Get(models.FieldTransactionStatus),
	}
}

func optionalField(row models.ImportRow, field string) *string {
	value := row.Get(field)
	if value == "" {
		return nil
	}
	return &value
}

// amountField parses a validated amount; blank means zero.
func amountField(row models.ImportRow, field string) decimal.Decimal {
	value := row.Get(field)
	if value == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// dueDateFromPeriod derives a due date from a "YYYY-MM" billing period as the
// last day of that month. Periods in other shapes yield no due date.
func dueDateFromPeriod(period string) *time.Time {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return nil
	}
	due := t.AddDate(0, 1, -1)
	return &due
}

var transactionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTransactionDate is lenient: unparseable or blank dates come back zero
// and default to the processing time downstream.
func parseTransactionDate(value string) time.Time {
	for _, layout := range transactionDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
