package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB is a writable handle to the sales database, used by the CSV loader and
// migrations. Query traffic from the assistant goes through Executor instead,
// which opens the file read-only per statement.
type DB struct {
	conn *sql.DB
}

func New(databasePath string) (*DB, error) {
	conn, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate runs embedded migrations
func (db *DB) Migrate() error {
	return RunMigrations(db.conn)
}

// readOnlyDSN builds a DSN that refuses writes at the driver level.
func readOnlyDSN(databasePath string) string {
	return fmt.Sprintf("file:%s?mode=ro", databasePath)
}
