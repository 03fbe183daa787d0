package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds the query-path indexes AutoMigrate does not cover.
// Every listing and cascade filters on is_deleted plus one more column, so
// composite indexes pay for themselves quickly.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Visibility filter: live tasks of one assignee
		{"tasks", "idx_tasks_assignee_is_deleted", "assignee, is_deleted"},
		// Cascade lookup: tasks of one project
		{"tasks", "idx_tasks_project_id_is_deleted", "project_id, is_deleted"},
		{"projects", "idx_projects_is_deleted", "is_deleted"},
		{"workers", "idx_workers_is_deleted", "is_deleted"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
