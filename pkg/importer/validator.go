package importer

import (
	"fmt"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/shopspring/decimal"
)

// Required fields and amount fields are checked in this order so defect
// messages come out stable for a given row.
var requiredFields = []string{
	models.FieldClientCode,
	models.FieldFirstName,
	models.FieldLastName,
	models.FieldInvoiceNumber,
	models.FieldTransactionRef,
	models.FieldPlatformName,
}

var amountFields = []string{
	models.FieldTotalAmount,
	models.FieldPaidAmount,
	models.FieldTransactionAmount,
}

// Validate checks a single row for required fields and numeric
// well-formedness. It is pure: no storage is touched. Messages carry the
// human-visible row number (header is line 1, first data row is 2).
func Validate(row models.ImportRow, rowNumber int) []string {
	var defects []string

	for _, field := range requiredFields {
		if !row.Has(field) {
			defects = append(defects, fmt.Sprintf("Row %d: missing required field '%s'", rowNumber, field))
		}
	}

	for _, field := range amountFields {
		value := row.Get(field)
		if value == "" {
			continue
		}
		if _, err := decimal.NewFromString(value); err != nil {
			defects = append(defects, fmt.Sprintf("Row %d: field '%s' has invalid amount '%s'", rowNumber, field, value))
		}
	}

	return defects
}
