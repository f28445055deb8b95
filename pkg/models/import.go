package models

import (
	"strings"
	"time"
)

// Row field names expected in a denormalized import record.
const (
	FieldClientCode        = "client_code"
	FieldFirstName         = "first_name"
	FieldLastName          = "last_name"
	FieldEmail             = "email"
	FieldPhone             = "phone"
	FieldAddress           = "address"
	FieldCity              = "city"
	FieldDepartment        = "department"
	FieldInvoiceNumber     = "invoice_number"
	FieldBillingPeriod     = "billing_period"
	FieldTotalAmount       = "total_amount"
	FieldPaidAmount        = "paid_amount"
	FieldInvoiceStatus     = "invoice_status"
	FieldTransactionRef    = "transaction_reference"
	FieldTransactionDate   = "transaction_date"
	FieldTransactionAmount = "transaction_amount"
	FieldTransactionType   = "transaction_type"
	FieldTransactionStatus = "transaction_status"
	FieldPlatformName      = "platform_name"
)

// ImportRow is one denormalized record describing a
// client+invoice+transaction+platform tuple to reconcile.
type ImportRow map[string]string

// Get returns the trimmed value for a field, empty when absent.
func (r ImportRow) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Has reports whether the field carries a non-blank value.
func (r ImportRow) Has(field string) bool {
	return r.Get(field) != ""
}

// ImportStats is the accounting for one processed batch. Counters cover only
// rows whose writes committed; failed rows contribute error messages alone.
type ImportStats struct {
	ClientsProcessed      int      `json:"clients_processed"`
	ClientsCreated        int      `json:"clients_created"`
	ClientsUpdated        int      `json:"clients_updated"`
	InvoicesProcessed     int      `json:"invoices_processed"`
	InvoicesCreated       int      `json:"invoices_created"`
	InvoicesUpdated       int      `json:"invoices_updated"`
	TransactionsProcessed int      `json:"transactions_processed"`
	TransactionsCreated   int      `json:"transactions_created"`
	TransactionsUpdated   int      `json:"transactions_updated"`
	Errors                []string `json:"errors"`
}

// ImportRowsRequest is the JSON ingestion payload.
type ImportRowsRequest struct {
	Rows []ImportRow `json:"rows" validate:"required,min=1"`
}

// ImportBatchMessage is the Kafka ingestion payload.
type ImportBatchMessage struct {
	BatchID    string      `json:"batch_id"`
	Source     string      `json:"source"`
	ReportedAt time.Time   `json:"reported_at"`
	Rows       []ImportRow `json:"rows"`
}
