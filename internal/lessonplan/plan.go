// Package lessonplan binds a language's catalog to the progress store.
package lessonplan

import (
	"fmt"

	"github.com/example/blitzkarten/internal/catalog"
	"github.com/example/blitzkarten/internal/logger"
	"github.com/example/blitzkarten/internal/progress"
	"github.com/example/blitzkarten/pkg/models"
)

// LessonPlan is what the UI needs from one language
type LessonPlan interface {
	LanguageName() string
	Topics() []models.Topic
	Topic(title string) (models.Topic, bool)
	Progress(title string) models.ProgressRecord
	ToggleLessonRead(title string) (models.ProgressRecord, error)
	ToggleVocabularyStudied(title string) (models.ProgressRecord, error)
	ToggleQuizTaken(title string) (models.ProgressRecord, error)
	RecordQuizScore(title string, score int) (models.ProgressRecord, error)
}

// Plan is the LessonPlan of a single catalog
type Plan struct {
	catalog *catalog.Catalog
	store   *progress.Store
	log     *logger.Logger
}

var _ LessonPlan = (*Plan)(nil)

// New binds cat to store and loads the progress of every catalog topic
func New(cat *catalog.Catalog, store *progress.Store, log *logger.Logger) (*Plan, error) {
	if err := store.Load(cat.Topics()); err != nil {
		return nil, fmt.Errorf("failed to load %s progress: %w", cat.Language().Name, err)
	}
	return &Plan{
		catalog: cat,
		store:   store,
		log:     log.With("language", cat.Language().Slug),
	}, nil
}

// NewGerman builds the plan for the built-in German catalog
func NewGerman(store *progress.Store, log *logger.Logger) (*Plan, error) {
	cat, err := catalog.German()
	if err != nil {
		return nil, err
	}
	return New(cat, store, log)
}

func (p *Plan) LanguageName() string {
	return p.catalog.Language().Name
}

func (p *Plan) Topics() []models.Topic {
	return p.catalog.Topics()
}

func (p *Plan) Topic(title string) (models.Topic, bool) {
	return p.catalog.Topic(title)
}

// Progress returns the record for title, creating a default one if needed
func (p *Plan) Progress(title string) models.ProgressRecord {
	p.checkTitle(title)
	return p.store.Get(title)
}

func (p *Plan) ToggleLessonRead(title string) (models.ProgressRecord, error) {
	return p.toggle(title, models.FieldLessonRead)
}

func (p *Plan) ToggleVocabularyStudied(title string) (models.ProgressRecord, error) {
	return p.toggle(title, models.FieldVocabularyStudied)
}

func (p *Plan) ToggleQuizTaken(title string) (models.ProgressRecord, error) {
	return p.toggle(title, models.FieldQuizPassed)
}

// RecordQuizScore stores score as the topic's high score if it beats the current one
func (p *Plan) RecordQuizScore(title string, score int) (models.ProgressRecord, error) {
	p.checkTitle(title)
	rec := p.store.Get(title)
	if score <= rec.QuizHighScore {
		return rec, nil
	}
	p.log.Info("new quiz high score", "title", title, "score", score, "previous", rec.QuizHighScore)
	return p.store.SetHighScore(title, score)
}

func (p *Plan) toggle(title string, field models.Field) (models.ProgressRecord, error) {
	p.checkTitle(title)
	rec := p.store.Get(title)
	return p.store.SetFlag(title, field, !rec.Flag(field))
}

// checkTitle logs titles the catalog does not know. Their records are
// still created but never shown next to a topic.
func (p *Plan) checkTitle(title string) {
	if _, ok := p.catalog.Topic(title); !ok && !p.store.Has(title) {
		p.log.Warn("progress for unknown topic", "title", title)
	}
}
