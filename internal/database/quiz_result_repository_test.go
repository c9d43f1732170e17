package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blitzkarten/pkg/models"
)

func TestQuizResultsCreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizResultRepository(openTestDB(t))
	start := time.Date(2024, 10, 26, 12, 0, 0, 0, time.UTC)

	for i, score := range []int{40, 180, 90} {
		r := &models.QuizResult{
			TopicTitle: "Prefix Verbs",
			Score:      score,
			Correct:    score / 20,
			Questions:  9,
			TakenAt:    start.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, repo.Create(ctx, r))
		assert.NotZero(t, r.ID)
	}
	require.NoError(t, repo.Create(ctx, &models.QuizResult{TopicTitle: "Irregular(strong) verbs", Score: 10, Questions: 125}))

	results, err := repo.ListByTopic(ctx, "Prefix Verbs", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 90, results[0].Score)
	assert.Equal(t, 180, results[1].Score)
	assert.Equal(t, 9, results[1].Correct)
	assert.WithinDuration(t, start.Add(time.Hour), results[1].TakenAt, time.Second)
}

func TestQuizResultStats(t *testing.T) {
	ctx := context.Background()
	repo := NewQuizResultRepository(openTestDB(t))

	stats, err := repo.Stats(ctx, "Prefix Verbs")
	require.NoError(t, err)
	assert.Equal(t, models.QuizStats{}, stats)

	for _, score := range []int{40, 80} {
		require.NoError(t, repo.Create(ctx, &models.QuizResult{TopicTitle: "Prefix Verbs", Score: score, Questions: 9}))
	}
	stats, err = repo.Stats(ctx, "Prefix Verbs")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Attempts)
	assert.Equal(t, 80, stats.Best)
	assert.InDelta(t, 60.0, stats.Average, 0.001)
}
