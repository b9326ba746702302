package database

import (
	"fmt"

	"gorm.io/gorm"
)

// ResyncSequences moves postgres id sequences past rows inserted with
// explicit ids. sqlite derives the next id from the table itself.
func ResyncSequences(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"employees", "areas", "objectives"} {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
			table,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("resync %s sequence: %w", table, err)
		}
	}
	return nil
}
