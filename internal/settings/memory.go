// Package settings provides an in-process key-value settings store.
package settings

import (
	"strconv"
	"sync"
)

// Memory keeps settings in a map. Values are stored as strings so that
// reads behave like the database-backed store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// GetBool returns the value for key, false if absent
func (m *Memory) GetBool(key string) (bool, error) {
	v, ok := m.get(key)
	if !ok {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// GetInt returns the value for key, 0 if absent
func (m *Memory) GetInt(key string) (int, error) {
	v, ok := m.get(key)
	if !ok {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (m *Memory) SetBool(key string, value bool) error {
	m.set(key, strconv.FormatBool(value))
	return nil
}

func (m *Memory) SetInt(key string, value int) error {
	m.set(key, strconv.Itoa(value))
	return nil
}

// Len returns the number of stored keys
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

func (m *Memory) get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
