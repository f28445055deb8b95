package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"client_code,first_name,last_name,invoice_number,transaction_reference,platform_name,total_amount",
		"C001,Maria,Gomez,INV-1,TX-1,Nequi,150.00",
		"C002,Juan,Perez,INV-2,TX-2,Daviplata,200.00",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "C001", rows[0].Get("client_code"))
	assert.Equal(t, "Maria", rows[0].Get("first_name"))
	assert.Equal(t, "150.00", rows[0].Get("total_amount"))
	assert.Equal(t, "Daviplata", rows[1].Get("platform_name"))
}

func TestParseCSV_NormalizesHeaders(t *testing.T) {
	input := strings.Join([]string{
		"Client_Code, FIRST_NAME ,Last_Name",
		"C001,Maria,Gomez",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "C001", rows[0].Get("client_code"))
	assert.Equal(t, "Maria", rows[0].Get("first_name"))
	assert.Equal(t, "Gomez", rows[0].Get("last_name"))
}

func TestParseCSV_ShortRecords(t *testing.T) {
	input := strings.Join([]string{
		"client_code,first_name,last_name",
		"C001,Maria",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Maria", rows[0].Get("first_name"))
	assert.False(t, rows[0].Has("last_name"))
}

func TestParseCSV_EmptyFile(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("client_code,first_name\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseFile_Dispatch(t *testing.T) {
	t.Run("csv by extension", func(t *testing.T) {
		rows, err := ParseFile("export.CSV", strings.NewReader("client_code\nC001\n"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "C001", rows[0].Get("client_code"))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ParseFile("export.pdf", strings.NewReader(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file type")
	})
}
