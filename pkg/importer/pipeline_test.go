package importer

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientrepo "github.com/Ramsey-B/clover/internal/repositories/client"
	invoicerepo "github.com/Ramsey-B/clover/internal/repositories/invoice"
	platformrepo "github.com/Ramsey-B/clover/internal/repositories/platform"
	transactionrepo "github.com/Ramsey-B/clover/internal/repositories/transaction"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
)

type fakeTx struct {
	database.Tx
	commits   int
	rollbacks int
}

func (t *fakeTx) IsOpen() bool                       { return true }
func (t *fakeTx) Commit(ctx context.Context) error   { t.commits++; return nil }
func (t *fakeTx) Rollback(ctx context.Context) error { t.rollbacks++; return nil }

type fakeDB struct {
	database.DB
	tx *fakeTx
}

func (d *fakeDB) GetTx(ctx context.Context, opts *sql.TxOptions) (context.Context, database.Tx, error) {
	return ctx, d.tx, nil
}

// Resolver fakes behave like real upserts: the first time a natural key is
// seen the entity is new, afterwards it is an update.

type fakeClients struct {
	seen  map[string]int64
	calls []models.CreateClientRequest
	err   error
}

func (f *fakeClients) Upsert(ctx context.Context, req models.CreateClientRequest) (*clientrepo.UpsertResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.seen == nil {
		f.seen = map[string]int64{}
	}
	id, ok := f.seen[req.ClientCode]
	if !ok {
		id = int64(len(f.seen) + 1)
		f.seen[req.ClientCode] = id
	}
	return &clientrepo.UpsertResult{Client: &models.Client{ID: id, ClientCode: req.ClientCode}, IsNew: !ok}, nil
}

type fakeInvoices struct {
	seen  map[string]int64
	calls []models.CreateInvoiceRequest
	err   error
}

func (f *fakeInvoices) Upsert(ctx context.Context, req models.CreateInvoiceRequest) (*invoicerepo.UpsertResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.seen == nil {
		f.seen = map[string]int64{}
	}
	id, ok := f.seen[req.InvoiceNumber]
	if !ok {
		id = int64(len(f.seen) + 1)
		f.seen[req.InvoiceNumber] = id
	}
	return &invoicerepo.UpsertResult{Invoice: &models.Invoice{ID: id, InvoiceNumber: req.InvoiceNumber}, IsNew: !ok}, nil
}

type fakePlatforms struct {
	seen  map[string]int64
	calls []models.CreatePlatformRequest
	err   error
}

func (f *fakePlatforms) Upsert(ctx context.Context, req models.CreatePlatformRequest) (*platformrepo.UpsertResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.seen == nil {
		f.seen = map[string]int64{}
	}
	id, ok := f.seen[req.Name]
	if !ok {
		id = int64(len(f.seen) + 1)
		f.seen[req.Name] = id
	}
	return &platformrepo.UpsertResult{Platform: &models.Platform{ID: id, Name: req.Name}, IsNew: !ok}, nil
}

type fakeTransactions struct {
	seen  map[string]int64
	calls []models.CreateTransactionRequest
	err   error
}

func (f *fakeTransactions) Upsert(ctx context.Context, req models.CreateTransactionRequest) (*transactionrepo.UpsertResult, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.seen == nil {
		f.seen = map[string]int64{}
	}
	id, ok := f.seen[req.Reference]
	if !ok {
		id = int64(len(f.seen) + 1)
		f.seen[req.Reference] = id
	}
	return &transactionrepo.UpsertResult{Transaction: &models.Transaction{ID: id, Reference: req.Reference}, IsNew: !ok}, nil
}

type pipelineFixture struct {
	pipeline     *Pipeline
	tx           *fakeTx
	clients      *fakeClients
	invoices     *fakeInvoices
	platforms    *fakePlatforms
	transactions *fakeTransactions
}

func newPipelineFixture() *pipelineFixture {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	f := &pipelineFixture{
		tx:           &fakeTx{},
		clients:      &fakeClients{},
		invoices:     &fakeInvoices{},
		platforms:    &fakePlatforms{},
		transactions: &fakeTransactions{},
	}
	f.pipeline = NewPipeline(&fakeDB{tx: f.tx}, f.clients, f.invoices, f.platforms, f.transactions, logger)
	return f
}

func validRow(code, invoice, ref string) models.ImportRow {
	return models.ImportRow{
		"client_code":           code,
		"first_name":            "Maria",
		"last_name":             "Gomez",
		"email":                 "maria@example.com",
		"invoice_number":        invoice,
		"billing_period":        "2026-01",
		"total_amount":          "150.00",
		"paid_amount":           "50.00",
		"transaction_reference": ref,
		"transaction_date":      "2026-01-15",
		"transaction_amount":    "50.00",
		"platform_name":         "Nequi",
	}
}

func TestProcessBatch_CreatesAndUpdates(t *testing.T) {
	f := newPipelineFixture()

	rows := []models.ImportRow{
		validRow("C001", "INV-1", "TX-1"),
		validRow("C001", "INV-2", "TX-2"),
		validRow("C002", "INV-1", "TX-3"),
	}

	stats := f.pipeline.ProcessBatch(context.Background(), rows)

	assert.Empty(t, stats.Errors)

	assert.Equal(t, 3, stats.ClientsProcessed)
	assert.Equal(t, 2, stats.ClientsCreated)
	assert.Equal(t, 1, stats.ClientsUpdated)

	assert.Equal(t, 3, stats.InvoicesProcessed)
	assert.Equal(t, 2, stats.InvoicesCreated)
	assert.Equal(t, 1, stats.InvoicesUpdated)

	assert.Equal(t, 3, stats.TransactionsProcessed)
	assert.Equal(t, 3, stats.TransactionsCreated)
	assert.Equal(t, 0, stats.TransactionsUpdated)

	assert.Equal(t, 3, f.tx.commits)
	assert.Equal(t, 0, f.tx.rollbacks)
}

func TestProcessBatch_InvalidRowSkipsStorage(t *testing.T) {
	f := newPipelineFixture()

	row := validRow("", "INV-1", "TX-1")
	stats := f.pipeline.ProcessBatch(context.Background(), []models.ImportRow{row})

	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "Row 2: missing required field 'client_code'", stats.Errors[0])

	assert.Empty(t, f.clients.calls)
	assert.Equal(t, 0, f.tx.commits)
	assert.Equal(t, 0, stats.ClientsProcessed)
}

func TestProcessBatch_InvalidAmount(t *testing.T) {
	f := newPipelineFixture()

	row := validRow("C001", "INV-1", "TX-1")
	row["total_amount"] = "abc"

	stats := f.pipeline.ProcessBatch(context.Background(), []models.ImportRow{row})

	require.Len(t, stats.Errors, 1)
	assert.Equal(t, "Row 2: field 'total_amount' has invalid amount 'abc'", stats.Errors[0])
	assert.Empty(t, f.clients.calls)
}

func TestProcessBatch_FailedRowRollsBackAndContinues(t *testing.T) {
	f := newPipelineFixture()
	f.transactions.err = errors.New("connection reset")

	rows := []models.ImportRow{
		validRow("C001", "INV-1", "TX-1"),
		validRow("C002", "INV-2", "TX-2"),
	}

	stats := f.pipeline.ProcessBatch(context.Background(), rows)

	require.Len(t, stats.Errors, 2)
	assert.Equal(t, "Row 2: connection reset", stats.Errors[0])
	assert.Equal(t, "Row 3: connection reset", stats.Errors[1])

	// Counter increments made before the failure are reverted with the
	// rollback, so committed work is zero.
	assert.Equal(t, 0, stats.ClientsProcessed)
	assert.Equal(t, 0, stats.ClientsCreated)
	assert.Equal(t, 0, stats.InvoicesProcessed)
	assert.Equal(t, 0, stats.TransactionsProcessed)

	assert.Equal(t, 0, f.tx.commits)
	assert.Equal(t, 2, f.tx.rollbacks)
}

func TestProcessBatch_RowNumbersStartAtTwo(t *testing.T) {
	f := newPipelineFixture()

	rows := []models.ImportRow{
		validRow("C001", "INV-1", "TX-1"),
		validRow("", "INV-2", "TX-2"),
		validRow("C003", "INV-3", "TX-3"),
		validRow("", "INV-4", "TX-4"),
	}

	stats := f.pipeline.ProcessBatch(context.Background(), rows)

	require.Len(t, stats.Errors, 2)
	assert.Equal(t, "Row 3: missing required field 'client_code'", stats.Errors[0])
	assert.Equal(t, "Row 5: missing required field 'client_code'", stats.Errors[1])
	assert.Equal(t, 2, stats.ClientsProcessed)
}

func TestProcessBatch_EmptyBatch(t *testing.T) {
	f := newPipelineFixture()

	stats := f.pipeline.ProcessBatch(context.Background(), nil)

	assert.Empty(t, stats.Errors)
	assert.Equal(t, 0, stats.ClientsProcessed)
	assert.Equal(t, 0, f.tx.commits)
}

func TestProcessBatch_RequestMapping(t *testing.T) {
	f := newPipelineFixture()

	row := validRow("C001", "INV-1", "TX-1")
	stats := f.pipeline.ProcessBatch(context.Background(), []models.ImportRow{row})
	require.Empty(t, stats.Errors)

	require.Len(t, f.clients.calls, 1)
	client := f.clients.calls[0]
	assert.Equal(t, "C001", client.ClientCode)
	assert.Equal(t, "Maria", client.FirstName)
	require.NotNil(t, client.Email)
	assert.Equal(t, "maria@example.com", *client.Email)
	assert.Nil(t, client.Phone)

	require.Len(t, f.invoices.calls, 1)
	invoice := f.invoices.calls[0]
	assert.Equal(t, "INV-1", invoice.InvoiceNumber)
	assert.Equal(t, int64(1), invoice.ClientID)
	assert.Equal(t, "2026-01", invoice.BillingPeriod)
	require.NotNil(t, invoice.DueDate)
	assert.Equal(t, "2026-01-31", invoice.DueDate.Format("2006-01-02"))
	assert.True(t, invoice.TotalAmount.Equal(decimal.RequireFromString("150.00")))

	require.Len(t, f.platforms.calls, 1)
	assert.Equal(t, "Nequi", f.platforms.calls[0].Name)

	require.Len(t, f.transactions.calls, 1)
	tx := f.transactions.calls[0]
	assert.Equal(t, "TX-1", tx.Reference)
	assert.Equal(t, int64(1), tx.InvoiceID)
	assert.Equal(t, int64(1), tx.PlatformID)
	assert.Equal(t, "2026-01-15", tx.TransactionDate.Format("2006-01-02"))
}

func TestDueDateFromPeriod(t *testing.T) {
	tests := []struct {
		name   string
		period string
		want   string
	}{
		{name: "january", period: "2026-01", want: "2026-01-31"},
		{name: "february", period: "2026-02", want: "2026-02-28"},
		{name: "leap february", period: "2028-02", want: "2028-02-29"},
		{name: "april", period: "2026-04", want: "2026-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := dueDateFromPeriod(tt.period)
			require.NotNil(t, due)
			assert.Equal(t, tt.want, due.Format("2006-01-02"))
		})
	}

	t.Run("unparseable period", func(t *testing.T) {
		assert.Nil(t, dueDateFromPeriod("Q1-2026"))
		assert.Nil(t, dueDateFromPeriod(""))
	})
}

func TestParseTransactionDate(t *testing.T) {
	assert.Equal(t, "2026-01-15", parseTransactionDate("2026-01-15").Format("2006-01-02"))
	assert.Equal(t, "2026-01-15", parseTransactionDate("2026-01-15 10:30:00").Format("2006-01-02"))
	assert.Equal(t, "2026-01-15", parseTransactionDate("2026-01-15T10:30:00Z").Format("2006-01-02"))
	assert.True(t, parseTransactionDate("not a date").IsZero())
	assert.True(t, parseTransactionDate("").IsZero())
}
