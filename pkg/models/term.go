package models

// Term is a German verb with its English translation and principal parts
type Term struct {
	Infinitive     string `json:"infinitive" yaml:"infinitive" validate:"required"`
	Translation    string `json:"translation" yaml:"translation" validate:"required"`
	PresentTense   string `json:"present_tense" yaml:"present" validate:"required"`     // Third person singular
	ImperfectTense string `json:"imperfect_tense" yaml:"imperfect" validate:"required"` // Third person singular
	PastParticiple string `json:"past_participle" yaml:"participle" validate:"required"`
}

// QuizItem is a fixed question attached to a topic
type QuizItem struct {
	Question      string   `json:"question" yaml:"question"`
	Answers       []string `json:"answers" yaml:"answers" validate:"min=1"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct" validate:"required"`
}

// HasCorrectAnswer reports whether the correct answer is one of the offered answers
func (q QuizItem) HasCorrectAnswer() bool {
	for _, a := range q.Answers {
		if a == q.CorrectAnswer {
			return true
		}
	}
	return false
}
