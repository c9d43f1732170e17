package models

// Field names one persisted attribute of a progress record.
// The value doubles as the suffix of the settings key.
type Field string

const (
	FieldLessonRead        Field = "lesson"
	FieldVocabularyStudied Field = "vocab"
	FieldQuizPassed        Field = "quiz"
	FieldHighScore         Field = "score"
)

// Flags lists the boolean fields in display order
var Flags = []Field{FieldLessonRead, FieldVocabularyStudied, FieldQuizPassed}

// Key returns the settings key for a topic field, "<title>.<field>"
func (f Field) Key(title string) string {
	return title + "." + string(f)
}

// ProgressRecord tracks what the user has done with a topic.
// TopicTitle is the join key with the catalog.
type ProgressRecord struct {
	TopicTitle        string `json:"topic_title"`
	LessonRead        bool   `json:"lesson_read"`
	VocabularyStudied bool   `json:"vocabulary_studied"`
	QuizPassed        bool   `json:"quiz_passed"`
	QuizHighScore     int    `json:"quiz_high_score"`
}

// Flag returns the value of a boolean field; unknown fields read as false
func (p ProgressRecord) Flag(f Field) bool {
	switch f {
	case FieldLessonRead:
		return p.LessonRead
	case FieldVocabularyStudied:
		return p.VocabularyStudied
	case FieldQuizPassed:
		return p.QuizPassed
	}
	return false
}

// SetFlag sets a boolean field and reports whether the field is a flag
func (p *ProgressRecord) SetFlag(f Field, v bool) bool {
	switch f {
	case FieldLessonRead:
		p.LessonRead = v
	case FieldVocabularyStudied:
		p.VocabularyStudied = v
	case FieldQuizPassed:
		p.QuizPassed = v
	default:
		return false
	}
	return true
}
