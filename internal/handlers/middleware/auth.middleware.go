package middleware

import (
	"context"
	"strings"

	"lunchlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User"
)

// RequireAuth validates the bearer token and loads the matching user,
// creating it the first time a subject is seen.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequireAuth")

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := tokenParts[1]
		if token == "" {
			log.Info("empty token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}

		tokenInfo, err := m.authService.ValidateToken(c.UserContext(), token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		user, err := m.userRepo.FindOrCreate(
			c.UserContext(),
			tokenInfo.Subject,
			tokenInfo.Email,
			tokenInfo.Name,
		)
		if err != nil {
			log.Er("failed to load user", err, "subject", tokenInfo.Subject)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load user",
			})
		}

		if !user.IsActive {
			log.Info("inactive user rejected", "userID", user.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "User is inactive",
			})
		}

		c.Locals(UserKeyFiber, user)

		ctx := context.WithValue(c.UserContext(), UserKey, user)
		c.SetUserContext(ctx)

		log.Debug("user authenticated", "userID", user.ID)
		return c.Next()
	}
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}
