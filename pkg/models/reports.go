package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientTotalsRow is one active client with its COMPLETED transaction totals.
type ClientTotalsRow struct {
	ClientID          int64           `json:"client_id" db:"client_id"`
	ClientCode        string          `json:"client_code" db:"client_code"`
	FirstName         string          `json:"first_name" db:"first_name"`
	LastName          string          `json:"last_name" db:"last_name"`
	TotalPaid         decimal.Decimal `json:"total_paid" db:"total_paid"`
	CompletedCount    int             `json:"completed_count" db:"completed_count"`
	LastTransactionAt *time.Time      `json:"last_transaction_at,omitempty" db:"last_transaction_at"`
}

type ClientTotalsSummary struct {
	ClientCount int             `json:"client_count"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	AveragePaid decimal.Decimal `json:"average_paid"`
}

type ClientTotalsReport struct {
	Items   []ClientTotalsRow   `json:"items"`
	Summary ClientTotalsSummary `json:"summary"`
}

// PendingInvoiceTransaction is a transaction nested under a pending invoice.
type PendingInvoiceTransaction struct {
	InvoiceID       int64           `json:"-" db:"invoice_id"`
	Reference       string          `json:"reference" db:"reference"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	Status          string          `json:"status" db:"status"`
	PlatformName    string          `json:"platform_name" db:"platform_name"`
}

// PendingInvoiceRow is an outstanding invoice annotated with its balance and
// overdue standing.
type PendingInvoiceRow struct {
	InvoiceID     int64                       `json:"invoice_id" db:"invoice_id"`
	InvoiceNumber string                      `json:"invoice_number" db:"invoice_number"`
	ClientCode    string                      `json:"client_code" db:"client_code"`
	FirstName     string                      `json:"first_name" db:"first_name"`
	LastName      string                      `json:"last_name" db:"last_name"`
	BillingPeriod string                      `json:"billing_period" db:"billing_period"`
	DueDate       *time.Time                  `json:"due_date,omitempty" db:"due_date"`
	TotalAmount   decimal.Decimal             `json:"total_amount" db:"total_amount"`
	PaidAmount    decimal.Decimal             `json:"paid_amount" db:"paid_amount"`
	PendingAmount decimal.Decimal             `json:"pending_amount" db:"pending_amount"`
	Status        string                      `json:"status" db:"status"`
	DaysOverdue   int                         `json:"days_overdue" db:"-"`
	DueToday      bool                        `json:"due_today" db:"-"`
	Transactions  []PendingInvoiceTransaction `json:"transactions"`
}

type PendingInvoicesSummary struct {
	InvoiceCount  int             `json:"invoice_count"`
	OverdueCount  int             `json:"overdue_count"`
	DueTodayCount int             `json:"due_today_count"`
	TotalPending  decimal.Decimal `json:"total_pending"`
}

type PendingInvoicesReport struct {
	Items   []PendingInvoiceRow    `json:"items"`
	Summary PendingInvoicesSummary `json:"summary"`
}

// PlatformTransactionRow is a transaction joined with its invoice, client and
// platform.
type PlatformTransactionRow struct {
	TransactionID   int64           `json:"transaction_id" db:"transaction_id"`
	Reference       string          `json:"reference" db:"reference"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Type            string          `json:"type" db:"type"`
	Status          string          `json:"status" db:"status"`
	PlatformName    string          `json:"platform_name" db:"platform_name"`
	InvoiceNumber   string          `json:"invoice_number" db:"invoice_number"`
	ClientCode      string          `json:"client_code" db:"client_code"`
	FirstName       string          `json:"first_name" db:"first_name"`
	LastName        string          `json:"last_name" db:"last_name"`
}

// PlatformBreakdown carries per-platform counts and amount.
type PlatformBreakdown struct {
	TotalCount     int             `json:"total_count"`
	CompletedCount int             `json:"completed_count"`
	PendingCount   int             `json:"pending_count"`
	FailedCount    int             `json:"failed_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

type PlatformTransactionsSummary struct {
	TotalCount      int                          `json:"total_count"`
	CompletedCount  int                          `json:"completed_count"`
	PendingCount    int                          `json:"pending_count"`
	FailedCount     int                          `json:"failed_count"`
	TotalAmount     decimal.Decimal              `json:"total_amount"`
	CompletedAmount decimal.Decimal              `json:"completed_amount"`
	ByPlatform      map[string]PlatformBreakdown `json:"by_platform"`
}

type PlatformTransactionsReport struct {
	Items   []PlatformTransactionRow    `json:"items"`
	Summary PlatformTransactionsSummary `json:"summary"`
}
