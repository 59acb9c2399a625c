package postgres

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The repositories hand-write their column lists, so a drift between the SQL
// and the shipped DDL turns every query into a transport error and pins the
// service on the fallback dataset. Keep the two in sync.
func TestLeadColumnsExistInSchema(t *testing.T) {
	ddl, err := os.ReadFile("../../../scripts/schema.sql")
	require.NoError(t, err)
	schema := string(ddl)

	for _, col := range strings.Split(leadColumns, ",") {
		col = strings.TrimSpace(col)
		require.NotEmpty(t, col)
		assert.Contains(t, schema, col, "leads DDL must declare %q", col)
	}
}

func TestActivityAndHistoryColumnsExistInSchema(t *testing.T) {
	ddl, err := os.ReadFile("../../../scripts/schema.sql")
	require.NoError(t, err)
	schema := string(ddl)

	for _, col := range []string{"activity_type", "subject", "description", "outcome"} {
		assert.Contains(t, schema, col, "lead_activities DDL must declare %q", col)
	}
	for _, col := range []string{"from_stage", "to_stage", "at"} {
		assert.Contains(t, schema, col, "lead_stage_history DDL must declare %q", col)
	}
}
