package handlers

import (
	"lunchlog/internal/app"
	recommendationController "lunchlog/internal/controllers/recommendations"
	"lunchlog/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type RecommendationHandler struct {
	Handler
	recommendationController recommendationController.RecommendationControllerInterface
}

func NewRecommendationHandler(app app.App, router fiber.Router) *RecommendationHandler {
	log := logger.New("handlers").File("recommendation_handler")
	return &RecommendationHandler{
		recommendationController: app.Controllers.Recommendation,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecommendationHandler) Register() {
	recommendations := h.router.Group("/recommendations")
	recommendations.Get("/", h.getAllRecommendations)
	recommendations.Get("/:kind", h.getRecommendations)
}

func (h *RecommendationHandler) getRecommendations(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	query, ok := parseRecommendationQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameters must be integers",
		})
	}

	response, err := h.recommendationController.GetRecommendations(
		c.UserContext(),
		user,
		c.Params("kind"),
		query,
	)
	if err != nil {
		return respondError(
			c,
			err,
			recommendationController.ErrValidation,
			nil,
			"Failed to get recommendations",
		)
	}

	return c.JSON(response)
}

func (h *RecommendationHandler) getAllRecommendations(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	query, ok := parseRecommendationQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameters must be integers",
		})
	}

	response, err := h.recommendationController.GetAllRecommendations(c.UserContext(), user, query)
	if err != nil {
		return respondError(
			c,
			err,
			recommendationController.ErrValidation,
			nil,
			"Failed to get recommendations",
		)
	}

	return c.JSON(response)
}

func parseRecommendationQuery(c *fiber.Ctx) (recommendationController.RecommendationQuery, bool) {
	var query recommendationController.RecommendationQuery
	var err error

	if query.Limit, err = optionalIntQuery(c, "limit"); err != nil {
		return query, false
	}
	if query.Radius, err = optionalIntQuery(c, "radius"); err != nil {
		return query, false
	}
	if query.PerLocationSearchLimit, err = optionalIntQuery(c, "perLocationSearchLimit"); err != nil {
		return query, false
	}

	return query, true
}
