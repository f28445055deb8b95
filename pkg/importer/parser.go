package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ParseFile dispatches on the file extension. CSV and XLSX are the two
// export formats the billing sources produce.
func ParseFile(filename string, r io.Reader) ([]models.ImportRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(filename))
	}
}

// ParseCSV reads a headered CSV into row maps. Header names are lowercased
// and trimmed so exports with cosmetic header differences still bind to the
// expected field names.
func ParseCSV(r io.Reader) ([]models.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	fields := normalizeHeader(header)

	var rows []models.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rows = append(rows, recordToRow(fields, record))
	}

	return rows, nil
}

// ParseXLSX reads the first sheet of a workbook, first row as header.
func ParseXLSX(r io.Reader) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	fields := normalizeHeader(records[0])

	rows := make([]models.ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, recordToRow(fields, record))
	}

	return rows, nil
}

func normalizeHeader(header []string) []string {
	fields := make([]string, len(header))
	for i, h := range header {
		fields[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return fields
}

func recordToRow(fields []string, record []string) models.ImportRow {
	row := make(models.ImportRow, len(fields))
	for i, field := range fields {
		if field == "" || i >= len(record) {
			continue
		}
		row[field] = record[i]
	}
	return row
}
