package store

import (
	"strings"
	"testing"
)

// The startup DDL and the insert/update statements must agree on columns;
// a rename in one without the other only surfaces at runtime against a
// live database.
func TestRunsDDL_CoversStatementColumns(t *testing.T) {
	columns := []string{
		"id", "source_id", "dest_id", "assets", "status",
		"results", "started_at", "completed_at",
	}
	for _, col := range columns {
		if !strings.Contains(runsDDL, col) {
			t.Errorf("migration_runs DDL is missing column %q", col)
		}
	}
	if !strings.Contains(runsDDL, "IF NOT EXISTS") {
		t.Error("DDL must be idempotent across restarts")
	}
}
