package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/blitzkarten/internal/logger"
	"github.com/example/blitzkarten/pkg/models"
)

// Timers schedules callbacks. Callbacks must be delivered on the same
// event loop that calls the Runner.
type Timers interface {
	Every(interval time.Duration, fn func()) (cancel func(), err error)
	After(delay time.Duration, fn func()) (cancel func(), err error)
}

// Listener is told about everything the player should see
type Listener interface {
	OnQuestion(topic models.Topic, q Question)
	OnFeedback(topic models.Topic, f Feedback)
	OnComplete(topic models.Topic, r Result)
}

// ScoreRecorder persists the score of a finished quiz
type ScoreRecorder interface {
	RecordQuizScore(title string, score int) (models.ProgressRecord, error)
}

// Runner drives one quiz session at a time with a countdown ticker and the
// delayed move from feedback to the next question. It is not safe for
// concurrent use; all calls and timer callbacks share one event loop.
type Runner struct {
	timers   Timers
	unit     time.Duration
	listener Listener
	recorder ScoreRecorder
	rnd      *rand.Rand
	log      *logger.Logger

	session    *Session
	stopTicker func()
	cancelNext func()
}

// NewRunner creates a runner; unit is the length of one time unit
func NewRunner(timers Timers, unit time.Duration, listener Listener, recorder ScoreRecorder, log *logger.Logger) *Runner {
	return &Runner{
		timers:   timers,
		unit:     unit,
		listener: listener,
		recorder: recorder,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		log:      log.With("component", "quiz"),
	}
}

// Session returns the active session, nil if none
func (r *Runner) Session() *Session {
	return r.session
}

// Start abandons any running session and starts a quiz on topic
func (r *Runner) Start(topic models.Topic, highScore int) error {
	s, err := NewSession(topic, highScore, r.rnd)
	if err != nil {
		return fmt.Errorf("cannot start quiz on %q: %w", topic.Title, err)
	}
	r.Stop()

	stop, err := r.timers.Every(r.unit, func() { r.tick(s) })
	if err != nil {
		return fmt.Errorf("failed to start quiz timer: %w", err)
	}
	r.session = s
	r.stopTicker = stop

	r.log.Debug("quiz started", "title", topic.Title, "questions", len(topic.Vocabulary))
	r.listener.OnQuestion(topic, s.Question())
	return nil
}

// Answer submits an answer to the current question
func (r *Runner) Answer(answer string) error {
	s := r.session
	if s == nil {
		return ErrNotAwaitingAnswer
	}
	fb, err := s.Submit(answer)
	if err != nil {
		return err
	}
	r.showFeedback(s, fb)
	return nil
}

// Skip moves to the next question without feedback
func (r *Runner) Skip() error {
	s := r.session
	if s == nil {
		return ErrNotAwaitingAnswer
	}
	if err := s.Skip(); err != nil {
		return err
	}
	r.afterAdvance(s)
	return nil
}

// Stop cancels the timers and forgets the session
func (r *Runner) Stop() {
	if r.stopTicker != nil {
		r.stopTicker()
		r.stopTicker = nil
	}
	if r.cancelNext != nil {
		r.cancelNext()
		r.cancelNext = nil
	}
	r.session = nil
}

func (r *Runner) tick(s *Session) {
	if s != r.session {
		return
	}
	if s.Tick() {
		r.showFeedback(s, s.Feedback())
	}
}

func (r *Runner) showFeedback(s *Session, fb Feedback) {
	r.listener.OnFeedback(s.Topic(), fb)

	token := s.Token()
	cancel, err := r.timers.After(FeedbackDelay*r.unit, func() { r.advance(s, token) })
	if err != nil {
		// Without the delayed callback the quiz would stall, so move on now
		r.log.Warn("failed to schedule next question", "error", err)
		r.advance(s, token)
		return
	}
	r.cancelNext = cancel
}

// advance runs when the feedback delay expires. Callbacks from an older
// session or an older answer are dropped.
func (r *Runner) advance(s *Session, token uint64) {
	if s != r.session || !s.Advance(token) {
		return
	}
	r.cancelNext = nil
	r.afterAdvance(s)
}

func (r *Runner) afterAdvance(s *Session) {
	topic := s.Topic()
	if s.State() != Complete {
		r.listener.OnQuestion(topic, s.Question())
		return
	}

	result := s.Result()
	if r.recorder != nil {
		if _, err := r.recorder.RecordQuizScore(topic.Title, result.Score); err != nil {
			r.log.Warn("failed to record quiz score", "title", topic.Title, "error", err)
		}
	}
	r.log.Info("quiz complete", "title", topic.Title, "score", result.Score, "high_score", result.HighScore)
	r.Stop()
	r.listener.OnComplete(topic, result)
}
