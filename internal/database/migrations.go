package database

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns []string
}

// Composite indexes for the hot read paths. Single-column indexes live on the
// model tags.
var indexes = []index{
	// Notification inbox and unread counter
	{"notifications", "idx_notifications_recipient_status", []string{"recipient_id", "status"}},
	// Focus report window
	{"focus_sessions", "idx_focus_sessions_user_started", []string{"user_id", "started_at"}},
	// Ordered task and subtask listings
	{"tasks", "idx_tasks_project_created", []string{"project_id", "created_at"}},
	{"subtasks", "idx_subtasks_task_created", []string{"task_id", "created_at"}},
	// Community listings for a member
	{"community_members", "idx_community_members_user_id", []string{"user_id"}},
}

// AddIndexes creates the composite indexes that do not exist yet.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
	}

	return nil
}
