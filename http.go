package postboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// maxTokenDetailLen caps how much of the underlying parser error we echo
// back to the client on an invalid token.
const maxTokenDetailLen = 120

// unauthorizedBody is the response body for a request that reached a
// protected route without any usable credential.
func unauthorizedBody(path string) fiber.Map {
	return fiber.Map{
		"error":   "Unauthorized",
		"message": "Authentication required to access this resource",
		"status":  fiber.StatusUnauthorized,
		"path":    path,
	}
}

// UnauthorizedHandler rejects a request that carries no credential.
func UnauthorizedHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(unauthorizedBody(c.Path()))
}

// NewErrorHandler builds the application wide fiber error handler.
//
// Token failures map to a 401 with a fixed shape, domain errors carry
// their own HTTP code, anything else collapses into a generic 500 so we
// never leak internals to the client.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"message": fiberErr.Message,
			})
		}

		if IsTokenExpiredError(err) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":     "Token Expired",
				"message":   "Your session has expired. Please log in again",
				"status":    fiber.StatusUnauthorized,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		}

		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithCode(errors.CodeInternal)
		}

		logger.Error(
			"request error path=%s category=%v text_code=%s: %s details=%s",
			c.Path(),
			richErr.Category,
			richErr.TextCode,
			richErr.Message,
			print.MaybePrettyJSON(richErr.Metadata),
		)

		if richErr.Category == errors.CategoryAuth && richErr.Code == errors.CodeUnauthorized {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":     "Invalid Token",
				"message":   "Invalid token: " + truncate(richErr.Message, maxTokenDetailLen),
				"status":    fiber.StatusUnauthorized,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		}

		if errors.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": richErr.Message,
			})
		}

		switch richErr.Category {
		case errors.CategoryAuth, errors.CategoryValidation,
			errors.CategoryBadInput, errors.CategoryConflict:
			code := richErr.Code
			if code == 0 {
				code = fiber.StatusBadRequest
			}
			return c.Status(code).JSON(fiber.Map{
				"message": richErr.Message,
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected server error occurred",
		})
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
