package handlers

import (
	"errors"
	"strings"

	"orderhub/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// errorMessage returns the text sent to clients in {"error": ...} bodies.
// Store failures carry the database message unchanged.
func errorMessage(err error) string {
	var storeErr *repositories.StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Error()
	}
	return err.Error()
}

func errorResponse(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"error": errorMessage(err),
	})
}

// parseJSONBody decodes a JSON request body into out. Requests without a JSON
// content type or without a body leave out untouched.
func parseJSONBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		return nil
	}
	return c.BodyParser(out)
}
