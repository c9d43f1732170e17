// Package catalog holds the static vocabulary of a language: its topics,
// their verbs and quiz items. A Catalog is read-only once built.
package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/example/blitzkarten/pkg/models"
)

// Language describes a language a catalog teaches
type Language struct {
	Slug string // Identifier, e.g. "german"
	Name string // Human-readable name, e.g. "German"
}

// GermanLanguage is the only language shipped with the application
var GermanLanguage = Language{Slug: "german", Name: "German"}

var (
	ErrDuplicateTitle = errors.New("duplicate topic title")
	ErrBadQuizItem    = errors.New("quiz correct answer is not among the answers")
)

// Catalog is the ordered, immutable list of topics of one language
type Catalog struct {
	language Language
	topics   []models.Topic
	byTitle  map[string]int
}

// New validates topics and builds a catalog. Topic IDs are generated here.
func New(lang Language, topics []models.Topic) (*Catalog, error) {
	validate := validator.New()

	c := &Catalog{
		language: lang,
		topics:   make([]models.Topic, 0, len(topics)),
		byTitle:  make(map[string]int, len(topics)),
	}
	for i, topic := range topics {
		if err := validate.Struct(topic); err != nil {
			return nil, fmt.Errorf("topic %d (%q): %w", i, topic.Title, err)
		}
		if _, ok := c.byTitle[topic.Title]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, topic.Title)
		}
		for j, item := range topic.Quiz {
			if !item.HasCorrectAnswer() {
				return nil, fmt.Errorf("topic %q quiz item %d: %w", topic.Title, j, ErrBadQuizItem)
			}
		}

		topic.ID = uuid.New()
		topic.Vocabulary = append([]models.Term(nil), topic.Vocabulary...)
		topic.Quiz = append([]models.QuizItem(nil), topic.Quiz...)
		c.byTitle[topic.Title] = len(c.topics)
		c.topics = append(c.topics, topic)
	}
	return c, nil
}

// Language returns the language the catalog teaches
func (c *Catalog) Language() Language {
	return c.language
}

// Topics returns the topics in catalog order. The slice is a copy; the
// topics share their vocabulary, which callers must not modify.
func (c *Catalog) Topics() []models.Topic {
	return append([]models.Topic(nil), c.topics...)
}

// Topic looks a topic up by title
func (c *Catalog) Topic(title string) (models.Topic, bool) {
	i, ok := c.byTitle[title]
	if !ok {
		return models.Topic{}, false
	}
	return c.topics[i], true
}

// Len returns the number of topics
func (c *Catalog) Len() int {
	return len(c.topics)
}
