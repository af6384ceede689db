package sqlite

import "database/sql"

// schema contains the SQL statements to set up the catalog tables.
// These run on startup to ensure tables exist.
// IMPORTANT: services must be created BEFORE service_features due to the foreign key constraint.
const schema = `
CREATE TABLE IF NOT EXISTS services (
    service_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    duration_days INTEGER NOT NULL,
    price INTEGER NOT NULL,
    period_label TEXT NOT NULL DEFAULT '',
    popular INTEGER NOT NULL DEFAULT 0,
    device_limit INTEGER NOT NULL DEFAULT 0,
    dragon_power INTEGER NOT NULL DEFAULT 0,
    color_tag TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS service_features (
    service_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    feature TEXT NOT NULL,
    PRIMARY KEY (service_id, position),
    FOREIGN KEY (service_id) REFERENCES services(service_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_service_features_service_id ON service_features(service_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
