package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// sqliteSchema bootstraps the embedded database for the single-workstation
// deployment. The logical schema matches migrations/001_core.sql; JSON
// columns are plain TEXT here.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS statuses (
    id         TEXT PRIMARY KEY,
    code       TEXT NOT NULL DEFAULT '',
    display    TEXT NOT NULL,
    category   TEXT NOT NULL,
    color      TEXT NOT NULL DEFAULT '',
    active     INTEGER NOT NULL DEFAULT 1,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_by TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tooth_history_streams (
    patient_id   TEXT NOT NULL,
    tooth_number INTEGER NOT NULL,
    source       TEXT NOT NULL,
    statuses     TEXT NOT NULL,
    descriptions TEXT NOT NULL,
    dates        TEXT NOT NULL,
    created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (patient_id, tooth_number, source)
);

CREATE TABLE IF NOT EXISTS chart_cells (
    patient_id     TEXT NOT NULL,
    examination_id TEXT NOT NULL,
    quadrant       INTEGER NOT NULL,
    position       INTEGER NOT NULL,
    diagnosis      TEXT NOT NULL DEFAULT '',
    treatment      TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'normal',
    created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (patient_id, examination_id, quadrant, position)
);

CREATE TABLE IF NOT EXISTS examinations (
    id               TEXT PRIMARY KEY,
    patient_id       TEXT NOT NULL,
    examination_date TEXT NOT NULL,
    chief_complaint  TEXT NOT NULL DEFAULT '',
    notes            TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_streams_patient ON tooth_history_streams (patient_id);
CREATE INDEX IF NOT EXISTS idx_examinations_patient ON examinations (patient_id);
`

// OpenSQLite opens (creating if needed) the embedded clinic database and
// ensures the schema exists. Foreign keys between the clinic tables are
// intentionally absent: the subsystem does not own patient records.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "dentio.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent appends.
	sqldb.SetMaxOpenConns(1)

	if _, err := sqldb.Exec(sqliteSchema); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("bootstrap sqlite schema: %w", err)
	}
	return sqldb, nil
}
