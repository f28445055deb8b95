package client

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

func (f *failingDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	return f.err
}

func (f *failingDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	return f.err
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestGetByID_StorageErrorCarriesStatusCode(t *testing.T) {
	repo := NewRepository(&failingDB{err: errors.New("connection reset")}, noopLogger())

	_, err := repo.GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
}

func TestList_StorageErrorCarriesStatusCode(t *testing.T) {
	repo := NewRepository(&failingDB{err: errors.New("connection reset")}, noopLogger())

	_, _, err := repo.List(context.Background(), 1, 20)
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err))
	assert.Equal(t, http.StatusInternalServerError, httperror.GetStatusCode(err))
}
