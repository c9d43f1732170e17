package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the settings database for the given driver and makes sure
// the schema exists. driver is "sqlite3" (dsn is a file path) or
// "postgres" (dsn is a connection URL).
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "sqlite3":
		return connectSQLite(dsn)
	case "postgres":
		return connectPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func connectSQLite(path string) (*sqlx.DB, error) {
	// Create data directory if it doesn't exist
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func connectPostgres(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}

	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		idColumn = "id SERIAL PRIMARY KEY"
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS quiz_results (
			` + idColumn + `,
			topic_title TEXT NOT NULL,
			score INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			questions INTEGER NOT NULL,
			taken_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create quiz_results table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_quiz_results_topic ON quiz_results(topic_title, taken_at)`)
	if err != nil {
		return fmt.Errorf("failed to create quiz_results index: %w", err)
	}
	return nil
}
