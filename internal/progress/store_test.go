package progress

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blitzkarten/internal/logger"
	"github.com/example/blitzkarten/internal/settings"
	"github.com/example/blitzkarten/pkg/models"
)

// failingSettings reads like an empty store and refuses every write
type failingSettings struct {
	*settings.Memory
	writes int
}

func (f *failingSettings) SetBool(string, bool) error { f.writes++; return errors.New("disk full") }
func (f *failingSettings) SetInt(string, int) error   { f.writes++; return errors.New("disk full") }

// brokenReads fails every read
type brokenReads struct {
	*settings.Memory
}

func (brokenReads) GetBool(string) (bool, error) { return false, errors.New("locked") }

var topics = []models.Topic{
	{Title: "Irregular(strong) verbs"},
	{Title: "Prefix Verbs"},
}

func TestLoadDefaults(t *testing.T) {
	s := New(settings.NewMemory(), logger.Nop())
	require.NoError(t, s.Load(topics))

	records := s.Records()
	require.Len(t, records, 2)
	for i, rec := range records {
		assert.Equal(t, models.ProgressRecord{TopicTitle: topics[i].Title}, rec)
	}
}

func TestLoadReadsPersistedFields(t *testing.T) {
	mem := settings.NewMemory()
	require.NoError(t, mem.SetBool("Prefix Verbs.lesson", true))
	require.NoError(t, mem.SetBool("Prefix Verbs.quiz", true))
	require.NoError(t, mem.SetInt("Prefix Verbs.score", 140))

	s := New(mem, logger.Nop())
	require.NoError(t, s.Load(topics))

	assert.Equal(t, models.ProgressRecord{
		TopicTitle:    "Prefix Verbs",
		LessonRead:    true,
		QuizPassed:    true,
		QuizHighScore: 140,
	}, s.Get("Prefix Verbs"))
}

func TestLoadDeduplicatesTitles(t *testing.T) {
	s := New(settings.NewMemory(), logger.Nop())
	require.NoError(t, s.Load([]models.Topic{{Title: "A"}, {Title: "A"}, {Title: "B"}}))
	assert.Len(t, s.Records(), 2)
}

func TestLoadReadError(t *testing.T) {
	s := New(brokenReads{settings.NewMemory()}, logger.Nop())
	assert.Error(t, s.Load(topics))
}

func TestGetCreatesDefaultRecord(t *testing.T) {
	mem := settings.NewMemory()
	s := New(mem, logger.Nop())
	require.NoError(t, s.Load(topics))

	assert.False(t, s.Has("Foo"))
	rec := s.Get("Foo")
	assert.Equal(t, models.ProgressRecord{TopicTitle: "Foo"}, rec)
	assert.True(t, s.Has("Foo"))
	assert.Len(t, s.Records(), 3)
	assert.Zero(t, mem.Len(), "a created record is not persisted")

	s.Get("Foo")
	assert.Len(t, s.Records(), 3, "get must not duplicate records")
}

func TestSetFlagPersists(t *testing.T) {
	mem := settings.NewMemory()
	s := New(mem, logger.Nop())
	require.NoError(t, s.Load(topics))

	rec, err := s.SetFlag("Prefix Verbs", models.FieldLessonRead, true)
	require.NoError(t, err)
	assert.True(t, rec.LessonRead)

	stored, err := mem.GetBool("Prefix Verbs.lesson")
	require.NoError(t, err)
	assert.True(t, stored)

	// Reload from the same settings store
	reloaded := New(mem, logger.Nop())
	require.NoError(t, reloaded.Load(topics))
	assert.True(t, reloaded.Get("Prefix Verbs").LessonRead)
}

func TestSetFlagRejectsScoreField(t *testing.T) {
	s := New(settings.NewMemory(), logger.Nop())
	_, err := s.SetFlag("Prefix Verbs", models.FieldHighScore, true)
	assert.Error(t, err)
}

func TestSetHighScore(t *testing.T) {
	mem := settings.NewMemory()
	s := New(mem, logger.Nop())

	rec, err := s.SetHighScore("Prefix Verbs", 120)
	require.NoError(t, err)
	assert.Equal(t, 120, rec.QuizHighScore)

	stored, err := mem.GetInt("Prefix Verbs.score")
	require.NoError(t, err)
	assert.Equal(t, 120, stored)

	_, err = s.SetHighScore("Prefix Verbs", -1)
	assert.Error(t, err)
	assert.Equal(t, 120, s.Get("Prefix Verbs").QuizHighScore)
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	fs := &failingSettings{Memory: settings.NewMemory()}
	s := New(fs, logger.Nop())
	require.NoError(t, s.Load(topics))

	rec, err := s.SetFlag("Prefix Verbs", models.FieldVocabularyStudied, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.True(t, rec.VocabularyStudied)
	assert.True(t, s.Get("Prefix Verbs").VocabularyStudied)

	_, err = s.SetHighScore("Prefix Verbs", 50)
	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.Equal(t, 50, s.Get("Prefix Verbs").QuizHighScore)
	assert.Equal(t, 2, fs.writes)

	// Storage never saw the change, so a reload reverts it
	require.NoError(t, s.Load(topics))
	assert.False(t, s.Get("Prefix Verbs").VocabularyStudied)
}
