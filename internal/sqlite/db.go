package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. Idempotent enough for an embedded store:
// the service runs it at startup and tests run it per database.
func (db *DB) RunMigrations() error {
	migration := `
-- Plants table
CREATE TABLE IF NOT EXISTS plants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_plant_name ON plants(name);

-- Customers table
CREATE TABLE IF NOT EXISTS customers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_customer_name ON customers(name);

-- Weight classifications table
CREATE TABLE IF NOT EXISTS weight_classifications (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL,
    classification TEXT NOT NULL,
    category TEXT NOT NULL CHECK(category IN ('Dressed', 'Frozen', 'Byproduct')),
    min_weight REAL,
    max_weight REAL,
    default_heads INTEGER,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (plant_id) REFERENCES plants(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_plant_category ON weight_classifications(plant_id, category);

-- Tally sessions table
CREATE TABLE IF NOT EXISTS tally_sessions (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL,
    customer_id TEXT NOT NULL,
    session_number INTEGER NOT NULL,
    date TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('ongoing', 'completed', 'cancelled')),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (plant_id) REFERENCES plants(id) ON DELETE CASCADE,
    FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_customer_plant_date ON tally_sessions(customer_id, plant_id, date);
CREATE INDEX IF NOT EXISTS idx_status_date ON tally_sessions(status, date);

-- Allocation details table
CREATE TABLE IF NOT EXISTS allocation_details (
    id TEXT PRIMARY KEY,
    tally_session_id TEXT NOT NULL,
    weight_classification_id TEXT NOT NULL,
    required_bags INTEGER NOT NULL DEFAULT 0,
    allocated_bags_tally INTEGER NOT NULL DEFAULT 0,
    allocated_bags_dispatcher INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (tally_session_id) REFERENCES tally_sessions(id) ON DELETE CASCADE,
    FOREIGN KEY (weight_classification_id) REFERENCES weight_classifications(id)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_session_classification ON allocation_details(tally_session_id, weight_classification_id);

-- Tally log entries table
CREATE TABLE IF NOT EXISTS tally_log_entries (
    id TEXT PRIMARY KEY,
    tally_session_id TEXT NOT NULL,
    weight_classification_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('tally', 'dispatcher')),
    weight REAL NOT NULL,
    heads INTEGER NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (tally_session_id) REFERENCES tally_sessions(id) ON DELETE CASCADE,
    FOREIGN KEY (weight_classification_id) REFERENCES weight_classifications(id)
);
CREATE INDEX IF NOT EXISTS idx_session_role ON tally_log_entries(tally_session_id, role);
CREATE INDEX IF NOT EXISTS idx_session_created ON tally_log_entries(tally_session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_entry_classification ON tally_log_entries(weight_classification_id);

-- Entry edit audit trail
CREATE TABLE IF NOT EXISTS tally_entry_audit (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id TEXT NOT NULL,
    actor TEXT NOT NULL DEFAULT '',
    edited_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    changes TEXT NOT NULL,
    FOREIGN KEY (entry_id) REFERENCES tally_log_entries(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_entry_edited_at ON tally_entry_audit(entry_id, edited_at);
`
	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
