package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lunchlog/internal/metrics"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Hourly       Schedule = iota
	Daily                 // 02:00 UTC every day
	EveryTwoDays          // 02:00 UTC every second day
)

// Time of day for the daily schedules, UTC.
const nightlyRunAt = "02:00"

func (s Schedule) String() string {
	switch s {
	case Hourly:
		return "hourly"
	case Daily:
		return "daily"
	case EveryTwoDays:
		return "every_two_days"
	default:
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
}

// Job is a unit of periodic background work.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

// SchedulerService runs registered jobs on their schedule. A job never
// overlaps with itself: a tick that arrives while the previous run is still
// going is skipped.
type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      map[string]Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService() *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: gocron.NewScheduler(time.UTC),
		jobs:      make(map[string]Job),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// AddJob registers a job under its name, which must be unique.
func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	if _, exists := s.jobs[job.Name()]; exists {
		return log.Error("job already registered", "job", job.Name())
	}

	var timing *gocron.Scheduler
	switch job.Schedule() {
	case Hourly:
		timing = s.scheduler.Every(1).Hour()
	case Daily:
		timing = s.scheduler.Every(1).Day().At(nightlyRunAt)
	case EveryTwoDays:
		timing = s.scheduler.Every(2).Days().At(nightlyRunAt)
	default:
		return log.Error("unknown job schedule", "job", job.Name(), "schedule", job.Schedule().String())
	}

	_, err := timing.Tag(job.Name()).SingletonMode().Do(func() {
		s.run(s.ctx, job, "schedule")
	})
	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs[job.Name()] = job
	log.Info("Job registered", "job", job.Name(), "schedule", job.Schedule().String())

	return nil
}

func (s *SchedulerService) run(ctx context.Context, job Job, trigger string) {
	log := s.log.Function("run")
	start := time.Now()

	log.Info("Running job", "job", job.Name(), "trigger", trigger)
	err := job.Execute(ctx)
	metrics.ScheduledJobDuration.WithLabelValues(job.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ScheduledJobRuns.WithLabelValues(job.Name(), metrics.StatusError).Inc()
		log.Er("Job failed", err, "job", job.Name(), "trigger", trigger)
		return
	}

	metrics.ScheduledJobRuns.WithLabelValues(job.Name(), metrics.StatusSuccess).Inc()
	log.Info("Job finished", "job", job.Name(), "duration", time.Since(start))
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, scheduled := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "jobs", scheduled.Tags(), "nextRun", scheduled.NextRun())
	}

	return nil
}

// Stop cancels running jobs and stops future ticks.
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false

	s.log.Function("Stop").Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// NextRuns maps each registered job name to its next run. Empty until started.
func (s *SchedulerService) NextRuns() map[string]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs := make(map[string]time.Time, len(s.jobs))
	if !s.started {
		return runs
	}

	for _, scheduled := range s.scheduler.Jobs() {
		for _, tag := range scheduled.Tags() {
			runs[tag] = scheduled.NextRun()
		}
	}
	return runs
}
