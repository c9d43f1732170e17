package models

import "time"

// QuizResult is one finished quiz attempt
type QuizResult struct {
	ID         int64     `json:"id" db:"id"`
	TopicTitle string    `json:"topic_title" db:"topic_title"`
	Score      int       `json:"score" db:"score"`
	Correct    int       `json:"correct" db:"correct"`
	Questions  int       `json:"questions" db:"questions"`
	TakenAt    time.Time `json:"taken_at" db:"taken_at"`
}

// QuizStats summarizes the attempts on one topic
type QuizStats struct {
	Attempts int     `json:"attempts" db:"attempts"`
	Best     int     `json:"best" db:"best"`
	Average  float64 `json:"average" db:"average"`
}
