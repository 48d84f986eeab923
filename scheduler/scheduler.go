package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// PackageJob rebuilds one package when run.
type PackageJob interface {
	Run()
	ID() string
}

type SchedulerParams struct {
	Logger zerolog.Logger
}

func NewScheduler(params SchedulerParams) *Scheduler {
	cronLogger := cronLog{logger: params.Logger}
	return &Scheduler{
		// A package still being written is not started again.
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: params.Logger,
		jobs:   make(map[cron.EntryID]PackageJob),
	}
}

type Scheduler struct {
	lock   sync.Mutex
	cron   *cron.Cron
	jobs   map[cron.EntryID]PackageJob
	logger zerolog.Logger
}

// Start the scheduler in its own routine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop the scheduler and wait for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) AddPackageJob(schedule string, job PackageJob) error {
	entry, err := s.cron.AddJob(schedule, job)
	if err != nil {
		return fmt.Errorf("could not add package job %s: %w", job.ID(), err)
	}

	s.lock.Lock()
	s.jobs[entry] = job
	s.lock.Unlock()
	s.logger.Debug().Str("job", job.ID()).Str("schedule", schedule).Msg("scheduled package job")

	return nil
}

// NextRuns returns the next run time of every job by id.
// Times are zero until the scheduler is started.
func (s *Scheduler) NextRuns() map[string]time.Time {
	s.lock.Lock()
	defer s.lock.Unlock()

	next := make(map[string]time.Time, len(s.jobs))
	for entry, job := range s.jobs {
		next[job.ID()] = s.cron.Entry(entry).Next
	}
	return next
}

func (s *Scheduler) RemoveJobs() {
	s.lock.Lock()
	defer s.lock.Unlock()

	for entry := range s.jobs {
		s.cron.Remove(entry)
		delete(s.jobs, entry)
	}
}

type cronLog struct {
	logger zerolog.Logger
}

// Info implements cron.Logger.
func (c cronLog) Info(msg string, keysAndValues ...any) {
	c.logger.Debug().Fields(keysAndValues).Msg(msg)
}

// Error implements cron.Logger.
func (c cronLog) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
