// Package quiz runs timed multiple-choice quizzes over a topic's vocabulary.
//
// Each question asks for the translation of one verb. The player has
// QuestionTime units to answer; a correct answer earns BasePoints plus a
// speed bonus of (QuestionTime-elapsed)/2. After an answer the feedback is
// shown for FeedbackDelay units before the next question.
package quiz

import (
	"errors"
	"math/rand"

	"github.com/example/blitzkarten/pkg/models"
)

const (
	QuestionTime  = 20 // Time units per question
	FeedbackDelay = 3  // Time units the feedback stays before advancing
	BasePoints    = 10
)

var (
	ErrEmptyVocabulary   = errors.New("quiz topic has no vocabulary")
	ErrNotAwaitingAnswer = errors.New("quiz is not waiting for an answer")
)

// State of a quiz session
type State int

const (
	AwaitingAnswer State = iota
	ShowingFeedback
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingAnswer:
		return "awaiting_answer"
	case ShowingFeedback:
		return "showing_feedback"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Points returns the score for a correct answer given after elapsed units
func Points(elapsed int) int {
	bonus := (QuestionTime - elapsed) / 2
	if bonus < 0 {
		bonus = 0
	}
	return BasePoints + bonus
}

// Question is what the player sees while an answer is expected
type Question struct {
	Index     int
	Total     int
	Term      models.Term
	Choices   []string
	Remaining int
}

// Feedback describes the outcome of one answered question
type Feedback struct {
	Index    int
	Answer   string
	Expected string
	Correct  bool
	TimedOut bool
	Points   int
	Score    int // Session score after this answer
}

// Result is reported when the last question is done
type Result struct {
	Score        int
	HighScore    int
	NewHighScore bool
	Correct      int
	Questions    int
}

// Session is the state of one pass through a topic's vocabulary.
// It is not safe for concurrent use.
type Session struct {
	topic     models.Topic
	rnd       *rand.Rand
	state     State
	index     int
	score     int
	correct   int
	highScore int
	elapsed   int
	remaining int
	choices   []string
	feedback  Feedback
	result    Result
	// token changes on every start and every answer; delayed callbacks
	// carry the token they were scheduled with
	token uint64
}

// NewSession prepares a session for topic; highScore is the best score so far
func NewSession(topic models.Topic, highScore int, rnd *rand.Rand) (*Session, error) {
	if len(topic.Vocabulary) == 0 {
		return nil, ErrEmptyVocabulary
	}
	s := &Session{topic: topic, rnd: rnd, highScore: highScore}
	s.Start()
	return s, nil
}

// Start begins a fresh pass from the first question
func (s *Session) Start() {
	s.token++
	s.index = 0
	s.score = 0
	s.correct = 0
	s.result = Result{}
	s.ask()
}

func (s *Session) ask() {
	s.state = AwaitingAnswer
	s.elapsed = 0
	s.remaining = QuestionTime
	s.choices = Choices(s.topic.Vocabulary, s.index, s.rnd)
}

func (s *Session) Topic() models.Topic { return s.topic }
func (s *Session) State() State        { return s.state }
func (s *Session) Index() int          { return s.index }
func (s *Session) Score() int          { return s.score }
func (s *Session) HighScore() int      { return s.highScore }
func (s *Session) Elapsed() int        { return s.elapsed }
func (s *Session) Remaining() int      { return s.remaining }
func (s *Session) Token() uint64       { return s.token }
func (s *Session) Feedback() Feedback  { return s.feedback }
func (s *Session) Result() Result      { return s.result }

// Question returns the current question
func (s *Session) Question() Question {
	return Question{
		Index:     s.index,
		Total:     len(s.topic.Vocabulary),
		Term:      s.topic.Vocabulary[s.index],
		Choices:   append([]string(nil), s.choices...),
		Remaining: s.remaining,
	}
}

// Tick counts one time unit. When the countdown runs out the question is
// answered as incorrect and Tick reports true.
func (s *Session) Tick() bool {
	if s.state != AwaitingAnswer {
		return false
	}
	s.elapsed++
	s.remaining--
	if s.remaining > 0 {
		return false
	}
	s.answer("", true)
	return true
}

// Submit answers the current question
func (s *Session) Submit(answer string) (Feedback, error) {
	if s.state != AwaitingAnswer {
		return Feedback{}, ErrNotAwaitingAnswer
	}
	s.answer(answer, false)
	return s.feedback, nil
}

func (s *Session) answer(answer string, timedOut bool) {
	expected := s.topic.Vocabulary[s.index].Translation
	fb := Feedback{
		Index:    s.index,
		Answer:   answer,
		Expected: expected,
		TimedOut: timedOut,
	}
	if !timedOut && answer == expected {
		fb.Correct = true
		fb.Points = Points(s.elapsed)
		s.correct++
	}
	s.score += fb.Points
	fb.Score = s.score

	s.feedback = fb
	s.state = ShowingFeedback
	s.token++
}

// Skip moves past the current question without scoring it
func (s *Session) Skip() error {
	if s.state != AwaitingAnswer {
		return ErrNotAwaitingAnswer
	}
	s.next()
	return nil
}

// Advance ends the feedback for the answer identified by token. Stale
// tokens and calls outside ShowingFeedback are ignored; the return value
// reports whether the session moved.
func (s *Session) Advance(token uint64) bool {
	if token != s.token || s.state != ShowingFeedback {
		return false
	}
	s.next()
	return true
}

func (s *Session) next() {
	if s.index+1 < len(s.topic.Vocabulary) {
		s.index++
		s.ask()
		return
	}
	s.complete()
}

func (s *Session) complete() {
	s.result = Result{
		Score:     s.score,
		HighScore: s.highScore,
		Correct:   s.correct,
		Questions: len(s.topic.Vocabulary),
	}
	if s.score > s.highScore {
		s.highScore = s.score
		s.result.HighScore = s.score
		s.result.NewHighScore = true
	}
	s.state = Complete
	s.score = 0
	s.correct = 0
	s.index = 0
	s.choices = nil
	s.token++
}
