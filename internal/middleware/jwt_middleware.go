package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserIDKey is the c.Locals key holding the authenticated user id.
const UserIDKey = "user_id"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(token string) (int64, error)
}

// AuthRequired is a Fiber middleware that rejects requests without a valid token.
// The Authorization header carries the token itself; a "Bearer " prefix is tolerated.
// Only an absent header is "Access Denied"; anything present but unusable is "Invalid Token".
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Access Denied",
			})
		}

		tokenString := authHeader
		scheme, rest, _ := strings.Cut(authHeader, " ")
		if strings.EqualFold(scheme, "Bearer") {
			tokenString = strings.TrimSpace(rest)
		}

		userID, err := verifier.VerifyToken(tokenString)
		if err != nil {
			logrus.WithError(err).Debug("Token verification failed")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid Token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// CurrentUserID returns the user id stored by AuthRequired.
func CurrentUserID(c *fiber.Ctx) (int64, bool) {
	userID, ok := c.Locals(UserIDKey).(int64)
	return userID, ok
}
