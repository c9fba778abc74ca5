// Package database manages the Rackdock SQLite database connection and
// schema migrations.
//
// The schema lives in the top-level migrations package as embedded
// YYYYMMDD_HHMMSS_description.up.sql / .down.sql pairs; Migrate applies
// pending versions at startup, each in its own transaction.
//
// SQLite is opened with WAL mode, a busy timeout, and foreign keys
// enabled. The connection pool is capped at a single connection to match
// SQLite's single-writer model.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
