package models

import "github.com/google/uuid"

// Topic is one lesson unit of a language: a grammar theme with its vocabulary and quiz
type Topic struct {
	ID         uuid.UUID  `json:"id" yaml:"-"`
	Title      string     `json:"title" yaml:"title" validate:"required"`
	LessonFile string     `json:"lesson_file" yaml:"lesson"` // Resolved by the lesson renderer as <LessonFile>.html
	Vocabulary []Term     `json:"vocabulary" yaml:"vocabulary" validate:"dive"`
	Quiz       []QuizItem `json:"quiz" yaml:"quiz" validate:"dive"`
}

// Translations returns the translation of every term in vocabulary order
func (t Topic) Translations() []string {
	out := make([]string, len(t.Vocabulary))
	for i, term := range t.Vocabulary {
		out[i] = term.Translation
	}
	return out
}
