// Package progress keeps one ProgressRecord per topic title and mirrors
// every change into a key-value settings store under "<title>.<field>".
//
// Writes go straight through: the in-memory record is updated first and
// then persisted. When the settings write fails the in-memory value is kept
// and the error (wrapping ErrWriteFailed) is returned as a warning, so
// memory and storage may disagree until the next successful write of the
// same key or the next Load.
package progress

import (
	"errors"
	"fmt"

	"github.com/example/blitzkarten/internal/logger"
	"github.com/example/blitzkarten/pkg/models"
)

// ErrWriteFailed marks a settings write that did not reach storage
var ErrWriteFailed = errors.New("progress write failed")

// Settings is the key-value persistence service. Absent keys read as the zero value.
type Settings interface {
	GetBool(key string) (bool, error)
	GetInt(key string) (int, error)
	SetBool(key string, value bool) error
	SetInt(key string, value int) error
}

// Store owns the progress records. It is not safe for concurrent use;
// callers run it from a single event loop.
type Store struct {
	settings Settings
	log      *logger.Logger
	records  []models.ProgressRecord
	byTitle  map[string]int
}

// New creates an empty store backed by settings
func New(settings Settings, log *logger.Logger) *Store {
	return &Store{
		settings: settings,
		log:      log.With("component", "progress"),
		byTitle:  make(map[string]int),
	}
}

// Load replaces the in-memory records with one record per topic, in topic
// order, read from the settings store.
func (s *Store) Load(topics []models.Topic) error {
	records := make([]models.ProgressRecord, 0, len(topics))
	byTitle := make(map[string]int, len(topics))

	for _, topic := range topics {
		if _, ok := byTitle[topic.Title]; ok {
			continue
		}
		rec, err := s.read(topic.Title)
		if err != nil {
			return err
		}
		byTitle[topic.Title] = len(records)
		records = append(records, rec)
	}

	s.records = records
	s.byTitle = byTitle
	s.log.Debug("progress loaded", "records", len(records))
	return nil
}

func (s *Store) read(title string) (models.ProgressRecord, error) {
	rec := models.ProgressRecord{TopicTitle: title}
	for _, field := range models.Flags {
		v, err := s.settings.GetBool(field.Key(title))
		if err != nil {
			return rec, fmt.Errorf("failed to read %s: %w", field.Key(title), err)
		}
		rec.SetFlag(field, v)
	}
	score, err := s.settings.GetInt(models.FieldHighScore.Key(title))
	if err != nil {
		return rec, fmt.Errorf("failed to read %s: %w", models.FieldHighScore.Key(title), err)
	}
	rec.QuizHighScore = score
	return rec, nil
}

// Get returns the record for title, creating a default one if none exists.
// A created record is kept in memory but not persisted.
func (s *Store) Get(title string) models.ProgressRecord {
	return *s.findOrCreate(title)
}

// Has reports whether a record exists for title
func (s *Store) Has(title string) bool {
	_, ok := s.byTitle[title]
	return ok
}

// Records returns a copy of all records in insertion order
func (s *Store) Records() []models.ProgressRecord {
	return append([]models.ProgressRecord(nil), s.records...)
}

// SetFlag sets a boolean field and writes it to the settings store
func (s *Store) SetFlag(title string, field models.Field, value bool) (models.ProgressRecord, error) {
	rec := s.findOrCreate(title)
	if !rec.SetFlag(field, value) {
		return *rec, fmt.Errorf("field %q is not a flag", field)
	}

	key := field.Key(title)
	if err := s.settings.SetBool(key, value); err != nil {
		s.log.Warn("settings write failed", "key", key, "error", err)
		return *rec, fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}
	return *rec, nil
}

// SetHighScore sets the quiz high score and writes it to the settings store
func (s *Store) SetHighScore(title string, score int) (models.ProgressRecord, error) {
	if score < 0 {
		return s.Get(title), fmt.Errorf("negative score %d", score)
	}
	rec := s.findOrCreate(title)
	rec.QuizHighScore = score

	key := models.FieldHighScore.Key(title)
	if err := s.settings.SetInt(key, score); err != nil {
		s.log.Warn("settings write failed", "key", key, "error", err)
		return *rec, fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}
	return *rec, nil
}

func (s *Store) findOrCreate(title string) *models.ProgressRecord {
	if i, ok := s.byTitle[title]; ok {
		return &s.records[i]
	}
	s.byTitle[title] = len(s.records)
	s.records = append(s.records, models.ProgressRecord{TopicTitle: title})
	return &s.records[len(s.records)-1]
}
