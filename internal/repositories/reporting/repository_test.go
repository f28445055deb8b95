package reporting

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/database"
)

type failingDB struct {
	database.DB
	err error
}

func (f *failingDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return f.err
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestQueries_StorageErrorCarriesStatusCode(t *testing.T) {
	repo := NewRepository(&failingDB{err: errors.New("connection reset")}, noopLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{name: "client totals", call: func() error { _, err := repo.ClientTotals(ctx); return err }},
		{name: "pending invoices", call: func() error { _, err := repo.PendingInvoices(ctx); return err }},
		{name: "pending invoice transactions", call: func() error { _, err := repo.PendingInvoiceTransactions(ctx, []int64{1}); return err }},
		{name: "transactions by platform", call: func() error { _, err := repo.TransactionsByPlatform(ctx, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, httperror.IsHTTPError(err))
			assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
		})
	}
}
