package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses. Supplied by the source system, never recomputed here.
const (
	InvoiceStatusPending = "PENDING"
	InvoiceStatusPartial = "PARTIAL"
	InvoiceStatusPaid    = "PAID"
	InvoiceStatusOverdue = "OVERDUE"
)

// Invoice is a bill owned by a client, keyed by invoice number.
type Invoice struct {
	ID            int64           `json:"id" db:"id"`
	InvoiceNumber string          `json:"invoice_number" db:"invoice_number"`
	ClientID      int64           `json:"client_id" db:"client_id"`
	BillingPeriod string          `json:"billing_period" db:"billing_period"`
	DueDate       *time.Time      `json:"due_date,omitempty" db:"due_date"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateInvoiceRequest creates or upserts an invoice keyed by invoice_number.
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	ClientID      int64           `json:"client_id" validate:"required"`
	BillingPeriod string          `json:"billing_period,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        string          `json:"status,omitempty" validate:"omitempty,oneof=PENDING PARTIAL PAID OVERDUE"`
}

// InvoiceListResponse is the response for listing invoices
type InvoiceListResponse struct {
	Items      []Invoice `json:"items"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}
