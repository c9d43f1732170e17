package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/blitzkarten/pkg/models"
)

// QuizResultRepository handles database operations for finished quizzes
type QuizResultRepository struct {
	db *sqlx.DB
}

// NewQuizResultRepository creates a new repository instance
func NewQuizResultRepository(db *sqlx.DB) *QuizResultRepository {
	return &QuizResultRepository{db: db}
}

// Create inserts a quiz result and fills in its ID
func (r *QuizResultRepository) Create(ctx context.Context, result *models.QuizResult) error {
	if result.TakenAt.IsZero() {
		result.TakenAt = time.Now().UTC()
	}
	query := r.db.Rebind(`
		INSERT INTO quiz_results (topic_title, score, correct, questions, taken_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		result.TopicTitle,
		result.Score,
		result.Correct,
		result.Questions,
		result.TakenAt,
	).Scan(&result.ID)
	if err != nil {
		return fmt.Errorf("failed to save quiz result: %w", err)
	}
	return nil
}

// ListByTopic returns the latest results for a topic, newest first
func (r *QuizResultRepository) ListByTopic(ctx context.Context, title string, limit int) ([]models.QuizResult, error) {
	var results []models.QuizResult
	query := r.db.Rebind(`
		SELECT id, topic_title, score, correct, questions, taken_at
		FROM quiz_results
		WHERE topic_title = ?
		ORDER BY taken_at DESC, id DESC
		LIMIT ?
	`)
	if err := r.db.SelectContext(ctx, &results, query, title, limit); err != nil {
		return nil, fmt.Errorf("failed to get quiz results: %w", err)
	}
	return results, nil
}

// Stats returns the attempt count, best and average score for a topic
func (r *QuizResultRepository) Stats(ctx context.Context, title string) (models.QuizStats, error) {
	var stats models.QuizStats
	query := r.db.Rebind(`
		SELECT COUNT(*) AS attempts,
			COALESCE(MAX(score), 0) AS best,
			COALESCE(AVG(score), 0) AS average
		FROM quiz_results
		WHERE topic_title = ?
	`)
	if err := r.db.GetContext(ctx, &stats, query, title); err != nil {
		return models.QuizStats{}, fmt.Errorf("failed to get quiz stats: %w", err)
	}
	return stats, nil
}
