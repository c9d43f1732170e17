package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// SettingsRepository is a key-value store on top of the settings table.
// Absent keys read as the zero value.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetBool returns the boolean stored under key
func (r *SettingsRepository) GetBool(key string) (bool, error) {
	value, ok, err := r.get(key)
	if err != nil || !ok {
		return false, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("setting %q is not a bool: %w", key, err)
	}
	return b, nil
}

// GetInt returns the integer stored under key
func (r *SettingsRepository) GetInt(key string) (int, error) {
	value, ok, err := r.get(key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("setting %q is not an int: %w", key, err)
	}
	return n, nil
}

// SetBool stores a boolean under key
func (r *SettingsRepository) SetBool(key string, value bool) error {
	return r.set(key, strconv.FormatBool(value))
}

// SetInt stores an integer under key
func (r *SettingsRepository) SetInt(key string, value int) error {
	return r.set(key, strconv.Itoa(value))
}

// All returns every stored setting
func (r *SettingsRepository) All() (map[string]string, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.Select(&rows, "SELECT key, value FROM settings ORDER BY key"); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *SettingsRepository) get(key string) (string, bool, error) {
	var value string
	query := r.db.Rebind("SELECT value FROM settings WHERE key = ?")
	err := r.db.Get(&value, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, true, nil
}

func (r *SettingsRepository) set(key, value string) error {
	// Same upsert syntax works for SQLite and PostgreSQL
	query := r.db.Rebind(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`)
	if _, err := r.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}
