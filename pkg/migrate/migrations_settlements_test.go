package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSettlementsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_monthly_settlements.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no settlements migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS monthly_settlements",
		"FOREIGN KEY (lease_id) REFERENCES leases(id) ON DELETE CASCADE",
		"CHECK (month BETWEEN 1 AND 12)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_settlements_lease_period",
		"DROP TABLE IF EXISTS monthly_settlements",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestFeeDefinitionsMigrationConstrainsParameter(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_fee_definitions.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no fee definitions migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if !strings.Contains(string(data), "CHECK (frequency_parameter BETWEEN 1 AND 12)") {
		t.Errorf("fee definitions migration missing frequency parameter bounds")
	}
}
