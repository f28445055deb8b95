// Package reports builds the read-only aggregation views and their
// summaries.
package reports

import (
	"context"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"

	"github.com/Ramsey-B/clover/internal/repositories/reporting"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Service runs the reporting queries and computes summaries over the result
// sets. A query error aborts the whole report; there is no partial-failure
// mode.
type Service struct {
	repo   reporting.ReportingRepository
	logger ectologger.Logger
}

// NewService creates a reporting service
func NewService(repo reporting.ReportingRepository, logger ectologger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ClientTotals reports total paid per active client, sorted by total paid
// descending.
func (s *Service) ClientTotals(ctx context.Context) (*models.ClientTotalsReport, error) {
	ctx, span := tracing.StartSpan(ctx, "reports.Service.ClientTotals")
	defer span.End()

	metrics.ReportRequestsTotal.WithLabelValues("client_totals").Inc()

	rows, err := s.repo.ClientTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ClientTotalsReport{
		Items:   emptyToSlice(rows),
		Summary: BuildClientTotalsSummary(rows),
	}, nil
}

// PendingInvoices reports outstanding invoices with their transactions
// nested.
func (s *Service) PendingInvoices(ctx context.Context) (*models.PendingInvoicesReport, error) {
	ctx, span := tracing.StartSpan(ctx, "reports.Service.PendingInvoices")
	defer span.End()

	metrics.ReportRequestsTotal.WithLabelValues("pending_invoices").Inc()

	rows, err := s.repo.PendingInvoices(ctx)
	if err != nil {
		return nil, err
	}

	AnnotatePendingInvoices(rows, time.Now())
	SortPendingInvoices(rows)

	invoiceIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		invoiceIDs = append(invoiceIDs, row.InvoiceID)
	}

	transactions, err := s.repo.PendingInvoiceTransactions(ctx, invoiceIDs)
	if err != nil {
		return nil, err
	}

	byInvoice := make(map[int64][]models.PendingInvoiceTransaction, len(rows))
	for _, txn := range transactions {
		byInvoice[txn.InvoiceID] = append(byInvoice[txn.InvoiceID], txn)
	}
	for i := range rows {
		rows[i].Transactions = emptyToSlice(byInvoice[rows[i].InvoiceID])
	}

	return &models.PendingInvoicesReport{
		Items:   emptyToSlice(rows),
		Summary: BuildPendingInvoicesSummary(rows),
	}, nil
}

// TransactionsByPlatform reports transactions joined with invoice and client,
// optionally filtered to one platform name.
func (s *Service) TransactionsByPlatform(ctx context.Context, platformName string) (*models.PlatformTransactionsReport, error) {
	ctx, span := tracing.StartSpan(ctx, "reports.Service.TransactionsByPlatform")
	defer span.End()

	metrics.ReportRequestsTotal.WithLabelValues("transactions_by_platform").Inc()

	rows, err := s.repo.TransactionsByPlatform(ctx, platformName)
	if err != nil {
		return nil, err
	}

	return &models.PlatformTransactionsReport{
		Items:   emptyToSlice(rows),
		Summary: BuildPlatformTransactionsSummary(rows),
	}, nil
}

// AnnotatePendingInvoices computes days overdue and due-today standing for
// each row against the given instant. Dates compare calendar day to calendar
// day, so an invoice due earlier today is due today, not overdue.
func AnnotatePendingInvoices(rows []models.PendingInvoiceRow, now time.Time) {
	today := dateOnly(now)
	for i := range rows {
		rows[i].DaysOverdue = 0
		rows[i].DueToday = false
		if rows[i].DueDate == nil {
			continue
		}
		due := dateOnly(*rows[i].DueDate)
		switch {
		case due.Before(today):
			rows[i].DaysOverdue = int(today.Sub(due).Hours() / 24)
		case due.Equal(today):
			rows[i].DueToday = true
		}
	}
}

// SortPendingInvoices orders rows overdue first, then due today, then future,
// with due date ascending (nulls last) and pending amount descending as
// tiebreakers. Rows must already be annotated.
func SortPendingInvoices(rows []models.PendingInvoiceRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := urgencyRank(rows[i]), urgencyRank(rows[j])
		if ri != rj {
			return ri < rj
		}
		di, dj := rows[i].DueDate, rows[j].DueDate
		switch {
		case di == nil && dj != nil:
			return false
		case di != nil && dj == nil:
			return true
		case di != nil && dj != nil && !di.Equal(*dj):
			return di.Before(*dj)
		}
		return rows[i].PendingAmount.GreaterThan(rows[j].PendingAmount)
	})
}

func urgencyRank(row models.PendingInvoiceRow) int {
	switch {
	case row.DaysOverdue > 0:
		return 0
	case row.DueToday:
		return 1
	default:
		return 2
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildClientTotalsSummary computes the grand total and average paid. The
// average is defined as zero when there are no clients.
func BuildClientTotalsSummary(rows []models.ClientTotalsRow) models.ClientTotalsSummary {
	summary := models.ClientTotalsSummary{
		ClientCount: len(rows),
		TotalPaid:   decimal.Zero,
		AveragePaid: decimal.Zero,
	}

	for _, row := range rows {
		summary.TotalPaid = summary.TotalPaid.Add(row.TotalPaid)
	}

	if summary.ClientCount > 0 {
		summary.AveragePaid = summary.TotalPaid.Div(decimal.NewFromInt(int64(summary.ClientCount))).Round(2)
	}

	return summary
}

// BuildPendingInvoicesSummary counts overdue and due-today invoices and sums
// the outstanding balance.
func BuildPendingInvoicesSummary(rows []models.PendingInvoiceRow) models.PendingInvoicesSummary {
	summary := models.PendingInvoicesSummary{
		InvoiceCount: len(rows),
		TotalPending: decimal.Zero,
	}

	for _, row := range rows {
		if row.DaysOverdue > 0 {
			summary.OverdueCount++
		}
		if row.DueToday {
			summary.DueTodayCount++
		}
		summary.TotalPending = summary.TotalPending.Add(row.PendingAmount)
	}

	return summary
}

// BuildPlatformTransactionsSummary totals counts and amounts overall and per
// platform.
func BuildPlatformTransactionsSummary(rows []models.PlatformTransactionRow) models.PlatformTransactionsSummary {
	summary := models.PlatformTransactionsSummary{
		TotalCount:      len(rows),
		TotalAmount:     decimal.Zero,
		CompletedAmount: decimal.Zero,
		ByPlatform:      make(map[string]models.PlatformBreakdown),
	}

	for _, row := range rows {
		summary.TotalAmount = summary.TotalAmount.Add(row.Amount)

		breakdown := summary.ByPlatform[row.PlatformName]
		breakdown.TotalCount++
		breakdown.TotalAmount = breakdown.TotalAmount.Add(row.Amount)

		switch row.Status {
		case models.TransactionStatusCompleted:
			summary.CompletedCount++
			summary.CompletedAmount = summary.CompletedAmount.Add(row.Amount)
			breakdown.CompletedCount++
		case models.TransactionStatusPending:
			summary.PendingCount++
			breakdown.PendingCount++
		case models.TransactionStatusFailed:
			summary.FailedCount++
			breakdown.FailedCount++
		}

		summary.ByPlatform[row.PlatformName] = breakdown
	}

	return summary
}

// emptyToSlice keeps JSON payloads as [] rather than null for empty sets.
func emptyToSlice[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
