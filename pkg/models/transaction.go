package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypePayment    = "PAYMENT"
	TransactionTypeRefund     = "REFUND"
	TransactionTypeAdjustment = "ADJUSTMENT"
)

// Transaction statuses
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
	TransactionStatusCancelled = "CANCELLED"
)

// Transaction is a payment event against an invoice through a platform,
// keyed by its external reference.
type Transaction struct {
	ID              int64           `json:"id" db:"id"`
	Reference       string          `json:"reference" db:"reference"`
	InvoiceID       int64           `json:"invoice_id" db:"invoice_id"`
	PlatformID      int64           `json:"platform_id" db:"platform_id"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Type            string          `json:"type" db:"type"`
	Status          string          `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateTransactionRequest creates or upserts a transaction keyed by reference.
type CreateTransactionRequest struct {
	Reference       string          `json:"reference" validate:"required"`
	InvoiceID       int64           `json:"invoice_id" validate:"required"`
	PlatformID      int64           `json:"platform_id" validate:"required"`
	TransactionDate time.Time       `json:"transaction_date"`
	Amount          decimal.Decimal `json:"amount"`
	Type            string          `json:"type,omitempty" validate:"omitempty,oneof=PAYMENT REFUND ADJUSTMENT"`
	Status          string          `json:"status,omitempty" validate:"omitempty,oneof=PENDING COMPLETED FAILED CANCELLED"`
}

// TransactionListResponse is the response for listing transactions
type TransactionListResponse struct {
	Items      []Transaction `json:"items"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
}
