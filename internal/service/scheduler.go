package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"invoicefin/internal/logger"
)

// ErrUnknownJob is returned when a job name is not registered.
var ErrUnknownJob = errors.New("unknown job")

// Schedule computes the next run time after a given instant.
type Schedule interface {
	Next(after time.Time) time.Time
	String() string
}

type everySchedule struct{ interval time.Duration }

// Every runs a job at a fixed interval.
func Every(d time.Duration) Schedule {
	if d <= 0 {
		d = time.Minute
	}
	return everySchedule{interval: d}
}

func (e everySchedule) Next(after time.Time) time.Time { return after.Add(e.interval) }
func (e everySchedule) String() string                 { return "every " + e.interval.String() }

type dailySchedule struct {
	hour, minute int
	loc          *time.Location
}

// DailyAt runs a job once a day at hour:minute in loc.
func DailyAt(hour, minute int, loc *time.Location) Schedule {
	return dailySchedule{hour: hour, minute: minute, loc: loc}
}

func (d dailySchedule) Next(after time.Time) time.Time {
	local := after.In(d.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (d dailySchedule) String() string {
	return fmt.Sprintf("daily at %02d:%02d %s", d.hour, d.minute, d.loc)
}

// Job is a named unit of scheduled work.
type Job struct {
	Name     string
	Schedule Schedule
	Run      func(ctx context.Context) error
}

// Scheduler runs registered jobs on their schedules through a LockedRunner.
type Scheduler struct {
	runner *LockedRunner
	jobs   []Job
	wg     sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(runner *LockedRunner, jobs ...Job) *Scheduler {
	return &Scheduler{runner: runner, jobs: jobs}
}

// Jobs returns the registered jobs in registration order.
func (s *Scheduler) Jobs() []Job {
	return s.jobs
}

// Start runs every job on its own goroutine until ctx is canceled, then
// waits for in-flight runs to finish.
func (s *Scheduler) Start(ctx context.Context) {
	log := logger.WithComponent("scheduler")
	for i := range s.jobs {
		job := s.jobs[i]
		log.Info().Str("job", job.Name).Str("schedule", job.Schedule.String()).Msg("job registered")

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.loop(ctx, job)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("scheduler stopping, waiting for running jobs")
	s.wg.Wait()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	log := logger.WithComponent("scheduler")
	for {
		wait := time.Until(job.Schedule.Next(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			// The next tick runs regardless of the outcome.
			ran, err := s.runner.Run(ctx, job.Name, job.Run)
			switch {
			case err != nil && !ran:
				log.Error().Err(err).Str("job", job.Name).Msg("scheduled run could not start")
			case ran:
				log.Debug().Str("job", job.Name).Bool("ran", true).AnErr("job_error", err).Msg("scheduled run done")
			default:
				log.Debug().Str("job", job.Name).Bool("ran", false).Msg("scheduled run skipped")
			}
		}
	}
}

// RunOnce runs the named job immediately under its lock.
func (s *Scheduler) RunOnce(ctx context.Context, name string) (bool, error) {
	for i := range s.jobs {
		if s.jobs[i].Name == name {
			return s.runner.Run(ctx, name, s.jobs[i].Run)
		}
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownJob, name)
}
