package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/blitzkarten/internal/logger"
)

// Scheduler fires timed jobs. Job functions never run on gocron's goroutines;
// they are posted to the Loop.
type Scheduler struct {
	cron *gocron.Scheduler
	loop *Loop
	log  *logger.Logger
}

// New creates a new scheduler instance
func New(loop *Loop, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron: gocron.NewScheduler(time.UTC),
		loop: loop,
		log:  log.With("component", "scheduler"),
	}
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.cron.StartAsync()
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Every runs fn on the loop each interval, first after one interval
func (s *Scheduler) Every(interval time.Duration, fn func()) (func(), error) {
	job, err := s.cron.Every(interval).WaitForSchedule().Do(s.post, fn)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule job every %s: %w", interval, err)
	}
	return s.cancel(job), nil
}

// After runs fn on the loop once, delay from now
func (s *Scheduler) After(delay time.Duration, fn func()) (func(), error) {
	job, err := s.cron.Every(delay).WaitForSchedule().LimitRunsTo(1).Do(s.post, fn)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule job after %s: %w", delay, err)
	}
	return s.cancel(job), nil
}

// Daily runs fn on the loop every day at the given "HH:MM" UTC time
func (s *Scheduler) Daily(at string, fn func()) error {
	if _, err := s.cron.Every(1).Day().At(at).Do(s.post, fn); err != nil {
		return fmt.Errorf("failed to schedule daily job at %s: %w", at, err)
	}
	return nil
}

// Jobs returns the number of scheduled jobs
func (s *Scheduler) Jobs() int {
	return len(s.cron.Jobs())
}

func (s *Scheduler) post(fn func()) {
	if !s.loop.Post(fn) {
		s.log.Debug("dropped job, event loop stopped")
	}
}

func (s *Scheduler) cancel(job *gocron.Job) func() {
	return func() {
		s.cron.RemoveByReference(job)
	}
}
