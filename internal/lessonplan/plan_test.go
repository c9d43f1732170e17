package lessonplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blitzkarten/internal/logger"
	"github.com/example/blitzkarten/internal/progress"
	"github.com/example/blitzkarten/internal/settings"
	"github.com/example/blitzkarten/pkg/models"
)

func newGermanPlan(t *testing.T, mem *settings.Memory) *Plan {
	t.Helper()
	p, err := NewGerman(progress.New(mem, logger.Nop()), logger.Nop())
	require.NoError(t, err)
	return p
}

func TestGermanPlan(t *testing.T) {
	p := newGermanPlan(t, settings.NewMemory())

	assert.Equal(t, "German", p.LanguageName())
	topics := p.Topics()
	require.Len(t, topics, 2)

	for _, topic := range topics {
		assert.Equal(t, models.ProgressRecord{TopicTitle: topic.Title}, p.Progress(topic.Title))
	}

	topic, ok := p.Topic("Prefix Verbs")
	require.True(t, ok)
	assert.Equal(t, "PrefixVerbs", topic.LessonFile)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	toggles := map[string]func(*Plan, string) (models.ProgressRecord, error){
		"lesson": (*Plan).ToggleLessonRead,
		"vocab":  (*Plan).ToggleVocabularyStudied,
		"quiz":   (*Plan).ToggleQuizTaken,
	}

	for name, toggle := range toggles {
		t.Run(name, func(t *testing.T) {
			p := newGermanPlan(t, settings.NewMemory())
			before := p.Progress("Prefix Verbs")

			once, err := toggle(p, "Prefix Verbs")
			require.NoError(t, err)
			assert.NotEqual(t, before, once)

			twice, err := toggle(p, "Prefix Verbs")
			require.NoError(t, err)
			assert.Equal(t, before, twice)
		})
	}
}

func TestToggleUnknownTitleCreatesRecord(t *testing.T) {
	p := newGermanPlan(t, settings.NewMemory())

	rec, err := p.ToggleVocabularyStudied("Foo")
	require.NoError(t, err)
	assert.Equal(t, models.ProgressRecord{TopicTitle: "Foo", VocabularyStudied: true}, rec)
	assert.Equal(t, rec, p.Progress("Foo"))
}

func TestToggleSurvivesReload(t *testing.T) {
	mem := settings.NewMemory()
	p := newGermanPlan(t, mem)

	_, err := p.ToggleLessonRead("Prefix Verbs")
	require.NoError(t, err)

	reloaded := newGermanPlan(t, mem)
	assert.True(t, reloaded.Progress("Prefix Verbs").LessonRead)
	assert.False(t, reloaded.Progress("Irregular(strong) verbs").LessonRead)
}

func TestRecordQuizScoreKeepsMaximum(t *testing.T) {
	mem := settings.NewMemory()
	p := newGermanPlan(t, mem)

	rec, err := p.RecordQuizScore("Prefix Verbs", 90)
	require.NoError(t, err)
	assert.Equal(t, 90, rec.QuizHighScore)

	rec, err = p.RecordQuizScore("Prefix Verbs", 40)
	require.NoError(t, err)
	assert.Equal(t, 90, rec.QuizHighScore)

	stored, err := mem.GetInt("Prefix Verbs.score")
	require.NoError(t, err)
	assert.Equal(t, 90, stored)
}
