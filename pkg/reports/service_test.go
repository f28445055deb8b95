package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

type fakeReportingRepo struct {
	clientTotals        []models.ClientTotalsRow
	pendingInvoices     []models.PendingInvoiceRow
	pendingTransactions []models.PendingInvoiceTransaction
	platformRows        []models.PlatformTransactionRow
	platformFilter      string
	err                 error
}

func (f *fakeReportingRepo) ClientTotals(ctx context.Context) ([]models.ClientTotalsRow, error) {
	return f.clientTotals, f.err
}

func (f *fakeReportingRepo) PendingInvoices(ctx context.Context) ([]models.PendingInvoiceRow, error) {
	return f.pendingInvoices, f.err
}

func (f *fakeReportingRepo) PendingInvoiceTransactions(ctx context.Context, invoiceIDs []int64) ([]models.PendingInvoiceTransaction, error) {
	return f.pendingTransactions, f.err
}

func (f *fakeReportingRepo) TransactionsByPlatform(ctx context.Context, platformName string) ([]models.PlatformTransactionRow, error) {
	f.platformFilter = platformName
	return f.platformRows, f.err
}

func newService(repo *fakeReportingRepo) *Service {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewService(repo, logger)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestClientTotals(t *testing.T) {
	repo := &fakeReportingRepo{
		clientTotals: []models.ClientTotalsRow{
			{ClientID: 1, ClientCode: "C001", TotalPaid: dec("300.00")},
			{ClientID: 2, ClientCode: "C002", TotalPaid: dec("100.00")},
		},
	}

	report, err := newService(repo).ClientTotals(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.Items, 2)
	assert.Equal(t, 2, report.Summary.ClientCount)
	assert.True(t, report.Summary.TotalPaid.Equal(dec("400.00")))
	assert.True(t, report.Summary.AveragePaid.Equal(dec("200.00")))
}

func TestClientTotals_Empty(t *testing.T) {
	report, err := newService(&fakeReportingRepo{}).ClientTotals(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, report.Items)
	assert.Empty(t, report.Items)
	assert.Equal(t, 0, report.Summary.ClientCount)
	assert.True(t, report.Summary.TotalPaid.IsZero())
	assert.True(t, report.Summary.AveragePaid.IsZero())
}

func TestClientTotals_RepositoryError(t *testing.T) {
	repo := &fakeReportingRepo{err: errors.New("boom")}
	_, err := newService(repo).ClientTotals(context.Background())
	require.Error(t, err)
}

func TestPendingInvoices_NestsTransactions(t *testing.T) {
	repo := &fakeReportingRepo{
		pendingInvoices: []models.PendingInvoiceRow{
			{InvoiceID: 10, InvoiceNumber: "INV-10", PendingAmount: dec("80.00"), DueDate: datePtr(time.Now().AddDate(0, 0, -3))},
			{InvoiceID: 11, InvoiceNumber: "INV-11", PendingAmount: dec("20.00"), DueDate: datePtr(time.Now())},
		},
		pendingTransactions: []models.PendingInvoiceTransaction{
			{InvoiceID: 10, Reference: "TX-1", Amount: dec("50.00"), TransactionDate: time.Now()},
			{InvoiceID: 10, Reference: "TX-2", Amount: dec("30.00"), TransactionDate: time.Now()},
		},
	}

	report, err := newService(repo).PendingInvoices(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Items, 2)
	assert.Equal(t, 3, report.Items[0].DaysOverdue)
	assert.True(t, report.Items[1].DueToday)
	require.Len(t, report.Items[0].Transactions, 2)
	assert.Equal(t, "TX-1", report.Items[0].Transactions[0].Reference)
	assert.NotNil(t, report.Items[1].Transactions)
	assert.Empty(t, report.Items[1].Transactions)

	assert.Equal(t, 2, report.Summary.InvoiceCount)
	assert.Equal(t, 1, report.Summary.OverdueCount)
	assert.Equal(t, 1, report.Summary.DueTodayCount)
	assert.True(t, report.Summary.TotalPending.Equal(dec("100.00")))
}

func TestPendingInvoices_Empty(t *testing.T) {
	report, err := newService(&fakeReportingRepo{}).PendingInvoices(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, report.Items)
	assert.Empty(t, report.Items)
	assert.Equal(t, 0, report.Summary.InvoiceCount)
	assert.True(t, report.Summary.TotalPending.IsZero())
}

func TestTransactionsByPlatform_PassesFilter(t *testing.T) {
	repo := &fakeReportingRepo{}
	_, err := newService(repo).TransactionsByPlatform(context.Background(), "Nequi")
	require.NoError(t, err)
	assert.Equal(t, "Nequi", repo.platformFilter)
}

func TestAnnotatePendingInvoices(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	rows := []models.PendingInvoiceRow{
		{InvoiceNumber: "INV-1", DueDate: datePtr(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))},
		{InvoiceNumber: "INV-2", DueDate: datePtr(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))},
		{InvoiceNumber: "INV-3", DueDate: datePtr(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))},
		{InvoiceNumber: "INV-4"},
	}

	AnnotatePendingInvoices(rows, now)

	assert.Equal(t, 5, rows[0].DaysOverdue)
	assert.False(t, rows[0].DueToday)

	// due earlier today counts as due today, not overdue
	assert.Equal(t, 0, rows[1].DaysOverdue)
	assert.True(t, rows[1].DueToday)

	assert.Equal(t, 0, rows[2].DaysOverdue)
	assert.False(t, rows[2].DueToday)

	assert.Equal(t, 0, rows[3].DaysOverdue)
	assert.False(t, rows[3].DueToday)
}

func TestSortPendingInvoices(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rows := []models.PendingInvoiceRow{
		{InvoiceNumber: "future", DueDate: datePtr(now.AddDate(0, 0, 7)), PendingAmount: dec("10.00")},
		{InvoiceNumber: "no-due-date", PendingAmount: dec("500.00")},
		{InvoiceNumber: "due-today", DueDate: datePtr(now), PendingAmount: dec("30.00")},
		{InvoiceNumber: "overdue-small", DueDate: datePtr(now.AddDate(0, 0, -1)), PendingAmount: dec("5.00")},
		{InvoiceNumber: "overdue-rich", DueDate: datePtr(now.AddDate(0, 0, -1)), PendingAmount: dec("100.00")},
		{InvoiceNumber: "overdue-old", DueDate: datePtr(now.AddDate(0, 0, -9)), PendingAmount: dec("50.00")},
	}

	AnnotatePendingInvoices(rows, now)
	SortPendingInvoices(rows)

	order := make([]string, 0, len(rows))
	for _, row := range rows {
		order = append(order, row.InvoiceNumber)
	}
	assert.Equal(t, []string{"overdue-old", "overdue-rich", "overdue-small", "due-today", "future", "no-due-date"}, order)
}

func TestBuildClientTotalsSummary_RoundsAverage(t *testing.T) {
	rows := []models.ClientTotalsRow{
		{TotalPaid: dec("100.00")},
		{TotalPaid: dec("100.00")},
		{TotalPaid: dec("100.01")},
	}

	summary := BuildClientTotalsSummary(rows)
	assert.True(t, summary.TotalPaid.Equal(dec("300.01")))
	assert.True(t, summary.AveragePaid.Equal(dec("100.00")), "got %s", summary.AveragePaid)
}

func TestBuildPlatformTransactionsSummary(t *testing.T) {
	rows := []models.PlatformTransactionRow{
		{PlatformName: "Nequi", Amount: dec("50.00"), Status: models.TransactionStatusCompleted},
		{PlatformName: "Nequi", Amount: dec("25.00"), Status: models.TransactionStatusPending},
		{PlatformName: "Daviplata", Amount: dec("10.00"), Status: models.TransactionStatusFailed},
		{PlatformName: "Daviplata", Amount: dec("40.00"), Status: models.TransactionStatusCompleted},
	}

	summary := BuildPlatformTransactionsSummary(rows)

	assert.Equal(t, 4, summary.TotalCount)
	assert.Equal(t, 2, summary.CompletedCount)
	assert.Equal(t, 1, summary.PendingCount)
	assert.Equal(t, 1, summary.FailedCount)
	assert.True(t, summary.TotalAmount.Equal(dec("125.00")))
	assert.True(t, summary.CompletedAmount.Equal(dec("90.00")))

	require.Contains(t, summary.ByPlatform, "Nequi")
	nequi := summary.ByPlatform["Nequi"]
	assert.Equal(t, 2, nequi.TotalCount)
	assert.Equal(t, 1, nequi.CompletedCount)
	assert.True(t, nequi.TotalAmount.Equal(dec("75.00")))

	daviplata := summary.ByPlatform["Daviplata"]
	assert.Equal(t, 1, daviplata.FailedCount)
	assert.True(t, daviplata.TotalAmount.Equal(dec("50.00")))
}

func TestBuildPlatformTransactionsSummary_Empty(t *testing.T) {
	summary := BuildPlatformTransactionsSummary(nil)

	assert.Equal(t, 0, summary.TotalCount)
	assert.True(t, summary.TotalAmount.IsZero())
	assert.NotNil(t, summary.ByPlatform)
	assert.Empty(t, summary.ByPlatform)
}
