package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The upserts and report queries depend on specific schema details; keep the
// initial migration in line with them.
func TestInitialMigrationSchema(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "db", "pg", "000001_init.up.sql"))
	require.NoError(t, err)
	schema := string(raw)

	// ON CONFLICT targets of the entity upserts
	assert.Contains(t, schema, "UNIQUE (client_code)")
	assert.Contains(t, schema, "UNIQUE (name)")
	assert.Contains(t, schema, "UNIQUE (invoice_number)")
	assert.Contains(t, schema, "UNIQUE (reference)")

	// email is unique when present; NULLs do not collide under UNIQUE
	assert.Contains(t, schema, "UNIQUE (email)")

	// due_date is a calendar day, not an instant; a timestamp column would
	// shift overdue classification across timezones
	assert.Regexp(t, `due_date\s+DATE`, schema)
}
