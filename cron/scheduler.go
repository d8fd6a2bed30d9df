// Package cron triggers batch runs at fixed local times of day.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/casewatch"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/semaphore"
)

// DefaultTimes are the local times of day at which a batch runs.
var DefaultTimes = []string{"10:30", "17:30"}

// Job runs one batch. trigger names what started it.
type Job func(ctx context.Context, trigger string) error

// Scheduler runs a Job at fixed times of day. At most one Job runs at a
// time: a trigger that arrives while a Job is running is skipped.
type Scheduler struct {
	job       Job
	times     []string
	location  *time.Location
	logger    *slog.Logger
	schedules []cron.Schedule

	sem  *semaphore.Weighted
	cron *cron.Cron
	ctx  context.Context
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTimes sets the times of day ("HH:MM", 24-hour clock).
// Defaults to DefaultTimes if not specified.
func WithTimes(times ...string) Option {
	return func(s *Scheduler) {
		s.times = times
	}
}

// WithLocation sets the time zone of the configured times.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.location = loc
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// New creates a Scheduler for job.
// Returns EINVALID if a configured time cannot be parsed.
func New(job Job, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		job:      job,
		times:    DefaultTimes,
		location: time.Local,
		logger:   slog.New(slog.DiscardHandler),
		sem:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.times) == 0 {
		return nil, casewatch.Errorf(casewatch.EINVALID, "at least one run time required")
	}

	logger := cronLogger{logger: s.logger}
	s.cron = cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)

	for _, t := range s.times {
		spec, err := Spec(t)
		if err != nil {
			return nil, err
		}
		schedule, err := cron.ParseStandard(spec)
		if err != nil {
			return nil, casewatch.Errorf(casewatch.EINVALID, "invalid schedule %q: %v", spec, err)
		}
		s.schedules = append(s.schedules, schedule)

		trigger := t
		s.cron.Schedule(schedule, cron.FuncJob(func() { s.fire(trigger) }))
	}

	return s, nil
}

// Spec converts a time of day ("HH:MM") to a standard daily cron spec.
// Example: 17:30 → "30 17 * * *"
func Spec(timeOfDay string) (string, error) {
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return "", casewatch.Errorf(casewatch.EINVALID, "invalid time of day %q, want HH:MM", timeOfDay)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

// Next returns the first scheduled time after from.
func (s *Scheduler) Next(from time.Time) time.Time {
	from = from.In(s.location)
	var next time.Time
	for _, schedule := range s.schedules {
		t := schedule.Next(from)
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}
	return next
}

// Trigger runs the job now unless another run is in progress, in which case
// it returns ECONFLICT without running.
func (s *Scheduler) Trigger(ctx context.Context, trigger string) error {
	if !s.sem.TryAcquire(1) {
		s.logger.Warn("batch already running, skipping trigger", "trigger", trigger)
		return casewatch.Errorf(casewatch.ECONFLICT, "batch already running")
	}
	defer s.sem.Release(1)

	return s.job(ctx, trigger)
}

// Run starts the schedule and blocks until ctx is done. On return the
// schedule is stopped and any running job has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("scheduler started", "times", s.times, "next", s.Next(time.Now()))

	<-ctx.Done()

	stopped := s.cron.Stop()
	<-stopped.Done()
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) fire(trigger string) {
	err := s.Trigger(s.ctx, trigger)
	if err != nil && casewatch.ErrorCode(err) != casewatch.ECONFLICT {
		s.logger.Error("scheduled batch failed", "trigger", trigger, "err", err)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
