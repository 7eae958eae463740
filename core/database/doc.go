// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// based on the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and verifies the
// connection with a ping. SQLite connections are limited to a single open
// connection so in-memory databases behave as one database.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table (PRAGMA table_info on SQLite,
// SHOW COLUMNS on MySQL). MissingColumns compares them against the columns a
// feature expects, which the inventory feature uses to verify its tables
// after migration.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "items", []string{"uuid", "item_type"})
package database
