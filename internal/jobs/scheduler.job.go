package jobs

import (
	"lunchlog/config"
	"lunchlog/internal/database"
	"lunchlog/internal/repositories"
	"lunchlog/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	db database.DB,
	repos repositories.Repository,
	queue Enqueuer,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	sweepJob := NewRestaurantSweepJob(repos.Restaurant, db.SQL, queue, services.EveryTwoDays)
	if err := schedulerService.AddJob(sweepJob); err != nil {
		return log.Err("failed to register restaurant sweep job", err)
	}
	log.Info("Registered restaurant sweep job", "schedule", "every two days")

	return nil
}
