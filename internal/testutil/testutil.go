package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// NewTestDB creates an in-memory SQLite database for testing
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email VARCHAR(255) NOT NULL UNIQUE,
		full_name VARCHAR(255),
		password_hash VARCHAR(255) NOT NULL,
		plan VARCHAR(50) NOT NULL DEFAULT 'free',
		monthly_qr_limit INTEGER NOT NULL DEFAULT 50,
		qr_used_this_month INTEGER NOT NULL DEFAULT 0,
		top_up_count INTEGER NOT NULL DEFAULT 0,
		limit_reset_date BIGINT NOT NULL,
		total_spent_cents BIGINT NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payment_templates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		iban VARCHAR(34) NOT NULL,
		amount_cents BIGINT NOT NULL DEFAULT 0,
		description TEXT,
		usage_count INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS qr_generations (
		id VARCHAR(36) PRIMARY KEY,
		user_id INTEGER,
		template_id INTEGER,
		amount_cents BIGINT NOT NULL,
		variable_symbol VARCHAR(10) NOT NULL UNIQUE,
		payload TEXT NOT NULL,
		iban VARCHAR(34) NOT NULL,
		note TEXT,
		created_at BIGINT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL,
		FOREIGN KEY (template_id) REFERENCES payment_templates(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS limit_purchases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		kind VARCHAR(50) NOT NULL,
		previous_limit INTEGER NOT NULL,
		new_limit INTEGER NOT NULL,
		amount_cents BIGINT NOT NULL,
		payment_ref VARCHAR(255),
		created_at BIGINT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS anonymous_quota (
		ip VARCHAR(45) PRIMARY KEY,
		used INTEGER NOT NULL DEFAULT 0,
		window_start BIGINT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
