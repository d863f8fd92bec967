package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Pool limits for WAL mode.
const (
	maxOpenConns = 25
	maxIdleConns = 25
)

// Open opens the SQLite session database at path.
// WAL mode, a busy timeout and foreign keys are enabled through the DSN so
// every pooled connection gets them.
// PRE: path is a file path or ":memory:"
// POST: returns a pinged pool or an error
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}
