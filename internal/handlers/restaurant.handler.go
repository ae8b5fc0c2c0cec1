package handlers

import (
	"lunchlog/internal/app"
	restaurantController "lunchlog/internal/controllers/restaurants"
	"lunchlog/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RestaurantHandler struct {
	Handler
	restaurantController restaurantController.RestaurantControllerInterface
}

func NewRestaurantHandler(app app.App, router fiber.Router) *RestaurantHandler {
	log := logger.New("handlers").File("restaurant_handler")
	return &RestaurantHandler{
		restaurantController: app.Controllers.Restaurant,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RestaurantHandler) Register() {
	restaurants := h.router.Group("/restaurants")
	restaurants.Post("/", h.createRestaurant)
	restaurants.Get("/:id", h.getRestaurant)
	restaurants.Post("/:id/enrich", h.requestEnrichment)
	restaurants.Get("/:id/visits", h.getVisits)
	restaurants.Get("/:id/enrichment-runs", h.getEnrichmentRuns)
}

func (h *RestaurantHandler) createRestaurant(c *fiber.Ctx) error {
	var request restaurantController.CreateRestaurantRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	restaurant, err := h.restaurantController.Create(c.UserContext(), &request)
	if err != nil {
		return h.respond(c, err, "Failed to create restaurant")
	}

	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

func (h *RestaurantHandler) getRestaurant(c *fiber.Ctx) error {
	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidRestaurantID(c)
	}

	restaurant, err := h.restaurantController.Get(c.UserContext(), restaurantID)
	if err != nil {
		return h.respond(c, err, "Failed to get restaurant")
	}

	return c.JSON(restaurant)
}

func (h *RestaurantHandler) requestEnrichment(c *fiber.Ctx) error {
	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidRestaurantID(c)
	}

	if err := h.restaurantController.RequestEnrichment(c.UserContext(), restaurantID); err != nil {
		return h.respond(c, err, "Failed to queue enrichment")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Enrichment queued",
	})
}

func (h *RestaurantHandler) getVisits(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidRestaurantID(c)
	}

	record, err := h.restaurantController.GetVisits(c.UserContext(), user, restaurantID)
	if err != nil {
		return h.respond(c, err, "Failed to get visits")
	}

	return c.JSON(record)
}

func (h *RestaurantHandler) getEnrichmentRuns(c *fiber.Ctx) error {
	restaurantID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return invalidRestaurantID(c)
	}

	runs, err := h.restaurantController.GetEnrichmentRuns(
		c.UserContext(),
		restaurantID,
		c.QueryInt("limit"),
	)
	if err != nil {
		return h.respond(c, err, "Failed to get enrichment runs")
	}

	return c.JSON(fiber.Map{"runs": runs})
}

func (h *RestaurantHandler) respond(c *fiber.Ctx, err error, message string) error {
	return respondError(
		c,
		err,
		restaurantController.ErrValidation,
		restaurantController.ErrNotFound,
		message,
	)
}

func invalidRestaurantID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid restaurant ID",
	})
}
