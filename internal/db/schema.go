package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database schema. Tests build
// in-memory databases from GetSchemaSQL() instead of hardcoding their own
// CREATE TABLE statements, so repository code referencing a column that does
// not exist here fails immediately with "no such column".
//
// Collections are keyed by the natural identity of a recording: who wore the
// headband, which pod recorded, and when the collection started. Storage
// paths are attributes, never identity, so re-uploads of the same recording
// under a different object name cannot create duplicate rows.
//
// All DATETIME values are stored as TEXT in "2006-01-02 15:04:05" form so
// string comparison matches chronological order.
const SchemaSQL = `
-- Participants, one row per weston ID. Site is the three letter report
-- short form, empty until the lookup table provides it.
CREATE TABLE IF NOT EXISTS participants (
	weston_id TEXT PRIMARY KEY,
	site TEXT NOT NULL DEFAULT ''
);

-- Collections, one row per recording. Stats and classification columns stay
-- NULL until the analyzer has run.
CREATE TABLE IF NOT EXISTS collections (
	weston_id TEXT NOT NULL,
	pod_id TEXT NOT NULL,
	start_dt TEXT NOT NULL,
	tz_offset REAL NOT NULL,
	upload_dt TEXT NOT NULL,
	edf_path TEXT NOT NULL DEFAULT '',
	jpg_path TEXT NOT NULL DEFAULT '',
	failed INTEGER NOT NULL DEFAULT 0,
	has_quality INTEGER NOT NULL DEFAULT 0,
	dur REAL,
	ch1 REAL,
	ch2 REAL,
	ch3 REAL,
	ch4 REAL,
	ch12 REAL,
	ch13 REAL,
	ch43 REAL,
	ch42 REAL,
	f_any REAL,
	f_both REAL,
	t_any REAL,
	t_both REAL,
	ft_any REAL,
	eeg_any REAL,
	eeg_all REAL,
	is_test INTEGER,
	dur_problem INTEGER,
	quality_problem INTEGER,
	qc_version INTEGER,
	PRIMARY KEY (weston_id, pod_id, start_dt),
	FOREIGN KEY (weston_id) REFERENCES participants(weston_id)
);

CREATE INDEX IF NOT EXISTS idx_collections_pending ON collections(has_quality, failed);

-- Pipeline bookkeeping values, currently just the download watermark.
CREATE TABLE IF NOT EXISTS config_vals (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// InitSchema creates the database schema.
func InitSchema(conn *sql.DB) error {
	_, err := conn.Exec(SchemaSQL)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
