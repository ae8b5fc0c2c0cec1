package handlers

import (
	"errors"
	"strconv"

	"lunchlog/internal/app"
	"lunchlog/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.TraceID())
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := router.Group("/api")
	HealthHandler(api, *app)

	protected := api.Group("", app.Middleware.RequireAuth())
	NewReceiptHandler(*app, protected).Register()
	NewRecommendationHandler(*app, protected).Register()
	NewRestaurantHandler(*app, protected).Register()

	return nil
}

// respondError maps controller sentinel errors onto HTTP statuses. Internal
// errors carry the trace id so a report can be matched to the logs.
func respondError(c *fiber.Ctx, err error, validation, notFound error, message string) error {
	switch {
	case validation != nil && errors.Is(err, validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case notFound != nil && errors.Is(err, notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   message,
			"traceId": middleware.GetTraceID(c),
		})
	}
}

// optionalIntQuery returns nil when the parameter is absent.
func optionalIntQuery(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
