package quiz

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/blitzkarten/internal/logger"
	"github.com/example/blitzkarten/pkg/models"
)

// fakeTimers records callbacks so tests fire them by hand, like an event loop would
type fakeTimers struct {
	tickers []*fakeTimer
	delays  []*fakeTimer
	failing bool
}

type fakeTimer struct {
	d         time.Duration
	fn        func()
	cancelled bool
}

func (f *fakeTimers) Every(d time.Duration, fn func()) (func(), error) {
	t := &fakeTimer{d: d, fn: fn}
	f.tickers = append(f.tickers, t)
	return func() { t.cancelled = true }, nil
}

func (f *fakeTimers) After(d time.Duration, fn func()) (func(), error) {
	if f.failing {
		return nil, errors.New("scheduler stopped")
	}
	t := &fakeTimer{d: d, fn: fn}
	f.delays = append(f.delays, t)
	return func() { t.cancelled = true }, nil
}

// tick fires the newest live ticker n times
func (f *fakeTimers) tick(n int) {
	t := f.tickers[len(f.tickers)-1]
	for i := 0; i < n && !t.cancelled; i++ {
		t.fn()
	}
}

// expire fires the newest delayed callback even if it was cancelled,
// the way a timer that already fired would
func (f *fakeTimers) expire() {
	f.delays[len(f.delays)-1].fn()
}

type recordingListener struct {
	questions []Question
	feedback  []Feedback
	results   []Result
}

func (l *recordingListener) OnQuestion(_ models.Topic, q Question) { l.questions = append(l.questions, q) }
func (l *recordingListener) OnFeedback(_ models.Topic, f Feedback) { l.feedback = append(l.feedback, f) }
func (l *recordingListener) OnComplete(_ models.Topic, r Result)   { l.results = append(l.results, r) }

type recordingScores struct {
	scores map[string]int
}

func (r *recordingScores) RecordQuizScore(title string, score int) (models.ProgressRecord, error) {
	if r.scores == nil {
		r.scores = make(map[string]int)
	}
	r.scores[title] = score
	return models.ProgressRecord{TopicTitle: title, QuizHighScore: score}, nil
}

func newTestRunner() (*Runner, *fakeTimers, *recordingListener, *recordingScores) {
	timers := &fakeTimers{}
	listener := &recordingListener{}
	scores := &recordingScores{}
	return NewRunner(timers, time.Second, listener, scores, logger.Nop()), timers, listener, scores
}

func TestRunnerAnswerFlow(t *testing.T) {
	r, timers, listener, _ := newTestRunner()
	topic := germanTopic(t, "Irregular(strong) verbs")

	require.NoError(t, r.Start(topic, 0))
	require.Len(t, listener.questions, 1)
	assert.Equal(t, time.Second, timers.tickers[0].d)

	timers.tick(4)
	require.NoError(t, r.Answer("bake"))
	require.Len(t, listener.feedback, 1)
	assert.Equal(t, 18, listener.feedback[0].Score)
	require.Len(t, timers.delays, 1)
	assert.Equal(t, 3*time.Second, timers.delays[0].d)

	// Ticks during feedback change nothing
	timers.tick(2)
	assert.Equal(t, ShowingFeedback, r.Session().State())

	timers.expire()
	require.Len(t, listener.questions, 2)
	assert.Equal(t, 1, listener.questions[1].Index)
	assert.Equal(t, "befehlen", listener.questions[1].Term.Infinitive)
}

func TestRunnerTimeoutAdvances(t *testing.T) {
	r, timers, listener, _ := newTestRunner()
	require.NoError(t, r.Start(germanTopic(t, "Prefix Verbs"), 0))

	timers.tick(QuestionTime)
	require.Len(t, listener.feedback, 1)
	assert.True(t, listener.feedback[0].TimedOut)

	timers.expire()
	assert.Len(t, listener.questions, 2)
}

func TestRunnerCompletesAndRecordsScore(t *testing.T) {
	r, timers, listener, scores := newTestRunner()
	topic := germanTopic(t, "Prefix Verbs")
	require.NoError(t, r.Start(topic, 30))

	for i := range topic.Vocabulary {
		require.NoError(t, r.Answer(topic.Vocabulary[i].Translation))
		timers.expire()
	}

	require.Len(t, listener.results, 1)
	assert.Equal(t, Result{Score: 180, HighScore: 180, NewHighScore: true, Correct: 9, Questions: 9}, listener.results[0])
	assert.Equal(t, 180, scores.scores["Prefix Verbs"])
	assert.Nil(t, r.Session())
	assert.True(t, timers.tickers[0].cancelled)
	assert.Len(t, listener.feedback, len(topic.Vocabulary))
}

func TestRunnerSkip(t *testing.T) {
	r, _, listener, _ := newTestRunner()
	require.NoError(t, r.Start(germanTopic(t, "Prefix Verbs"), 0))

	require.NoError(t, r.Skip())
	assert.Empty(t, listener.feedback)
	require.Len(t, listener.questions, 2)
	assert.Equal(t, 1, listener.questions[1].Index)
}

func TestRunnerStaleCallbackIsIgnored(t *testing.T) {
	r, timers, listener, _ := newTestRunner()
	first := germanTopic(t, "Prefix Verbs")
	second := germanTopic(t, "Irregular(strong) verbs")

	require.NoError(t, r.Start(first, 0))
	require.NoError(t, r.Answer("to begin"))
	staleAdvance := timers.delays[0].fn
	staleTick := timers.tickers[0].fn

	require.NoError(t, r.Start(second, 0))
	assert.True(t, timers.delays[0].cancelled)
	assert.True(t, timers.tickers[0].cancelled)

	staleAdvance()
	staleTick()
	s := r.Session()
	assert.Equal(t, second.Title, s.Topic().Title)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 0, s.Elapsed())
	assert.Equal(t, AwaitingAnswer, s.State())
	assert.Len(t, listener.questions, 2)
}

func TestRunnerRejectsEmptyTopic(t *testing.T) {
	r, timers, _, _ := newTestRunner()
	err := r.Start(models.Topic{Title: "Empty"}, 0)
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
	assert.Empty(t, timers.tickers)
	assert.Nil(t, r.Session())
}

func TestRunnerWithoutSession(t *testing.T) {
	r, _, _, _ := newTestRunner()
	assert.ErrorIs(t, r.Answer("x"), ErrNotAwaitingAnswer)
	assert.ErrorIs(t, r.Skip(), ErrNotAwaitingAnswer)
}

func TestRunnerAdvancesWhenDelayCannotBeScheduled(t *testing.T) {
	r, timers, listener, _ := newTestRunner()
	timers.failing = true
	require.NoError(t, r.Start(germanTopic(t, "Prefix Verbs"), 0))

	require.NoError(t, r.Answer("to begin"))
	assert.Len(t, listener.questions, 2)
}
