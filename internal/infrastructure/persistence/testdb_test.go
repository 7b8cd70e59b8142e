package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		last_login_at DATETIME,
		last_login_ip TEXT,
		failed_login_attempts INTEGER NOT NULL DEFAULT 0,
		locked_until DATETIME,
		password_changed_at DATETIME,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE contractors (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL UNIQUE,
		company_name TEXT NOT NULL,
		contact_name TEXT,
		email TEXT,
		phone TEXT,
		address TEXT,
		license_number TEXT,
		hourly_rate TEXT NOT NULL,
		markup_percent TEXT NOT NULL DEFAULT '0',
		tax_rate_percent TEXT NOT NULL DEFAULT '0',
		logo_key TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE projects (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		client_name TEXT,
		client_email TEXT,
		client_phone TEXT,
		address TEXT,
		notes TEXT,
		status TEXT NOT NULL DEFAULT 'draft',
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE workflow_screens (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		category TEXT NOT NULL,
		data TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE(project_id, category)
	)`,
	`CREATE TABLE line_items (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		category TEXT NOT NULL,
		type TEXT NOT NULL,
		source_key TEXT,
		name TEXT NOT NULL,
		unit TEXT,
		quantity TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		notes TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_auto_generated INTEGER NOT NULL DEFAULT 0,
		is_user_edited INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE project_photos (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		file_name TEXT NOT NULL,
		content_type TEXT NOT NULL,
		caption TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE subscriptions (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL UNIQUE,
		stripe_customer_id TEXT,
		stripe_subscription_id TEXT UNIQUE,
		status TEXT NOT NULL DEFAULT 'none',
		plan TEXT,
		price_id TEXT,
		current_period_end DATETIME,
		cancel_at_period_end INTEGER NOT NULL DEFAULT 0,
		canceled_at DATETIME,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
}

// setupTestDB creates a private in-memory SQLite database with the full schema.
// The shared cache keeps every pooled connection on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
