// Package scheduler runs registered maintenance jobs on a cooperative
// single-threaded polling loop: once per tick it executes, in registration
// order, every job whose schedule has elapsed.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTick is the polling interval of the loop.
const DefaultTick = time.Second

// Rule computes when a job should run next, given the reference time of its
// previous run (or of registration for the first run).
type Rule interface {
	Next(after time.Time) time.Time
}

// intervalRule fires a fixed duration after the previous run.
type intervalRule struct {
	interval time.Duration
}

func (r intervalRule) Next(after time.Time) time.Time {
	return after.Add(r.interval)
}

// Every returns a rule firing once per interval.
func Every(interval time.Duration) Rule {
	return intervalRule{interval: interval}
}

// weeklyRule fires once a week on a fixed weekday and wall-clock time.
type weeklyRule struct {
	day    time.Weekday
	hour   int
	minute int
}

func (r weeklyRule) Next(after time.Time) time.Time {
	next := time.Date(after.Year(), after.Month(), after.Day(), r.hour, r.minute, 0, 0, after.Location())
	for next.Weekday() != r.day || !next.After(after) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Weekly returns a rule firing every week on the given day at hour:minute.
func Weekly(day time.Weekday, hour, minute int) Rule {
	return weeklyRule{day: day, hour: hour, minute: minute}
}

// JobFunc is the body of a maintenance job.
type JobFunc func() error

type job struct {
	name    string
	rule    Rule
	run     JobFunc
	lastRun time.Time
	nextRun time.Time
}

// Scheduler holds the explicit job registry. It is built once at process
// start; Register is not safe to call after Run.
type Scheduler struct {
	jobs   []*job
	tick   time.Duration
	logger *zap.Logger

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Scheduler polling at DefaultTick.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tick:   DefaultTick,
		logger: logger,
		now:    time.Now,
	}
}

// Register adds a job to the registry. The first run happens once the rule
// elapses after registration, not immediately.
func (s *Scheduler) Register(name string, rule Rule, fn JobFunc) {
	s.jobs = append(s.jobs, &job{
		name:    name,
		rule:    rule,
		run:     fn,
		nextRun: rule.Next(s.now()),
	})
}

// Run polls until the context is cancelled. Due jobs execute sequentially to
// completion; a slow job delays later due jobs but the loop itself never
// stops. Job errors and panics are logged and isolated per invocation.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)), zap.Duration("tick", s.tick))

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunPending()
		}
	}
}

// RunPending executes every due job once, in registration order.
func (s *Scheduler) RunPending() {
	now := s.now()
	for _, j := range s.jobs {
		if now.Before(j.nextRun) {
			continue
		}
		start := s.now()
		if err := s.runOne(j); err != nil {
			s.logger.Error("job failed", zap.String("job", j.name), zap.Error(err))
		} else {
			s.logger.Info("job finished",
				zap.String("job", j.name),
				zap.Duration("took", s.now().Sub(start)))
		}
		j.lastRun = start
		j.nextRun = j.rule.Next(start)
	}
}

// runOne executes a single job, converting panics into errors so one broken
// job cannot take down the loop.
func (s *Scheduler) runOne(j *job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.name, r)
		}
	}()
	return j.run()
}
