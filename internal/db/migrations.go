package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/tenant-improvements/internal/model"
)

var tables = []any{
	&model.LedgerEntry{},
	&model.Property{},
	&model.Contractor{},
	&model.ContractorAssignment{},
	&model.Project{},
	&model.Modification{},
	&model.Allowance{},
	&model.Milestone{},
}

// postgresStatements harden the schema beyond what AutoMigrate expresses.
var postgresStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_allowance_conservation') THEN
			ALTER TABLE allowances ADD CONSTRAINT chk_allowance_conservation
				CHECK (total_amount = released_amount + remaining_amount);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_allowance_non_negative') THEN
			ALTER TABLE allowances ADD CONSTRAINT chk_allowance_non_negative
				CHECK (total_amount >= 0 AND released_amount >= 0 AND remaining_amount >= 0);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_milestone_paid_completed') THEN
			ALTER TABLE allowance_milestones ADD CONSTRAINT chk_milestone_paid_completed
				CHECK (NOT paid OR completed);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_contractor_rating') THEN
			ALTER TABLE contractors ADD CONSTRAINT chk_contractor_rating
				CHECK (rating BETWEEN 0 AND 5);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_assignment_rating') THEN
			ALTER TABLE contractor_assignments ADD CONSTRAINT chk_assignment_rating
				CHECK (performance_rating BETWEEN 0 AND 5);
		END IF;
	END
	$$;`,
	`CREATE OR REPLACE FUNCTION ledger_entries_append_only() RETURNS trigger AS $$
	BEGIN
		RAISE EXCEPTION 'ledger_entries is append-only';
	END
	$$ LANGUAGE plpgsql;`,
	`DROP TRIGGER IF EXISTS trg_ledger_entries_append_only ON ledger_entries;`,
	`CREATE TRIGGER trg_ledger_entries_append_only
		BEFORE UPDATE OR DELETE ON ledger_entries
		FOR EACH ROW EXECUTE FUNCTION ledger_entries_append_only();`,
}

func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if !IsPostgres(db) {
		return nil
	}
	for i, stmt := range postgresStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
