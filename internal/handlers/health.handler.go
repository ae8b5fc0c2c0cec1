package handlers

import (
	"context"
	"time"

	"lunchlog/internal/app"

	"github.com/gofiber/fiber/v2"
)

const healthPingTimeout = 2 * time.Second

func HealthHandler(router fiber.Router, app app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		scheduler := fiber.Map{"running": false}
		if app.Services.Scheduler != nil {
			nextRuns := make(map[string]string)
			for job, at := range app.Services.Scheduler.NextRuns() {
				nextRuns[job] = at.UTC().Format(time.RFC3339)
			}
			scheduler = fiber.Map{
				"running":  app.Services.Scheduler.IsRunning(),
				"nextRuns": nextRuns,
			}
		}

		status, code := "ok", fiber.StatusOK
		ctx, cancel := context.WithTimeout(c.UserContext(), healthPingTimeout)
		defer cancel()
		if err := app.Database.Ping(ctx); err != nil {
			status, code = "degraded", fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"version":   app.Config.GeneralVersion,
			"service":   "lunchlog_api",
			"scheduler": scheduler,
		})
	})
}
