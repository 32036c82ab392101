package live

import (
	"fmt"

	"gorm.io/gorm"
)

const commitCallback = "gorm:commit_or_rollback_transaction"

// RegisterCallbacks makes every create, update and delete issued through db
// invalidate its table on t after the statement's transaction has committed.
// Statements that failed or changed no rows do not invalidate anything.
//
// Writes issued inside an explicit db.Transaction are reported when the
// statement finishes, not when the outer transaction commits.
func RegisterCallbacks(db *gorm.DB, t *Tracker) error {
	notify := func(tx *gorm.DB) {
		if tx.Error != nil || tx.RowsAffected == 0 || tx.Statement.Table == "" {
			return
		}
		t.Invalidate(tx.Statement.Table)
	}

	if err := db.Callback().Create().After(commitCallback).Register("live:invalidate_create", notify); err != nil {
		return fmt.Errorf("register create callback: %w", err)
	}
	if err := db.Callback().Update().After(commitCallback).Register("live:invalidate_update", notify); err != nil {
		return fmt.Errorf("register update callback: %w", err)
	}
	if err := db.Callback().Delete().After(commitCallback).Register("live:invalidate_delete", notify); err != nil {
		return fmt.Errorf("register delete callback: %w", err)
	}
	return nil
}
