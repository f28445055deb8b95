package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

func TestValidate_CompleteRow(t *testing.T) {
	row := validRow("C001", "INV-1", "TX-1")
	assert.Empty(t, Validate(row, 2))
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		field string
	}{
		{name: "client code", field: "client_code"},
		{name: "first name", field: "first_name"},
		{name: "last name", field: "last_name"},
		{name: "invoice number", field: "invoice_number"},
		{name: "transaction reference", field: "transaction_reference"},
		{name: "platform name", field: "platform_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow("C001", "INV-1", "TX-1")
			delete(row, tt.field)

			defects := Validate(row, 7)
			require.Len(t, defects, 1)
			assert.Equal(t, "Row 7: missing required field '"+tt.field+"'", defects[0])
		})
	}
}

func TestValidate_BlankCountsAsMissing(t *testing.T) {
	row := validRow("C001", "INV-1", "TX-1")
	row["client_code"] = "   "

	defects := Validate(row, 2)
	require.Len(t, defects, 1)
	assert.Equal(t, "Row 2: missing required field 'client_code'", defects[0])
}

func TestValidate_InvalidAmounts(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "total amount text", field: "total_amount", value: "abc"},
		{name: "paid amount text", field: "paid_amount", value: "12,50"},
		{name: "transaction amount text", field: "transaction_amount", value: "$50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow("C001", "INV-1", "TX-1")
			row[tt.field] = tt.value

			defects := Validate(row, 3)
			require.Len(t, defects, 1)
			assert.Equal(t, "Row 3: field '"+tt.field+"' has invalid amount '"+tt.value+"'", defects[0])
		})
	}
}

func TestValidate_BlankAmountsAreAllowed(t *testing.T) {
	row := validRow("C001", "INV-1", "TX-1")
	row["total_amount"] = ""
	row["paid_amount"] = ""
	row["transaction_amount"] = ""

	assert.Empty(t, Validate(row, 2))
}

func TestValidate_NegativeAndSignedAmounts(t *testing.T) {
	row := validRow("C001", "INV-1", "TX-1")
	row["transaction_amount"] = "-25.00"

	assert.Empty(t, Validate(row, 2))
}

func TestValidate_MultipleDefectsInOrder(t *testing.T) {
	row := models.ImportRow{
		"first_name":         "Maria",
		"last_name":          "Gomez",
		"invoice_number":     "INV-1",
		"platform_name":      "Nequi",
		"total_amount":       "oops",
		"transaction_amount": "50.00",
	}

	defects := Validate(row, 4)
	require.Len(t, defects, 3)
	assert.Equal(t, "Row 4: missing required field 'client_code'", defects[0])
	assert.Equal(t, "Row 4: missing required field 'transaction_reference'", defects[1])
	assert.Equal(t, "Row 4: field 'total_amount' has invalid amount 'oops'", defects[2])
}
