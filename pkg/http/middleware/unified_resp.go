package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/observabil/steward/internal/engine/constant"
	httpx "github.com/observabil/steward/pkg/http"
)

// UnifiedResponseMiddleware wraps handler output into the unified envelope.
// Handlers set c.Locals(constant.DETAIL, value) for data responses or
// c.Locals(constant.OPERATION, "") for bare operation results.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			return err
		}

		if c.Response().StatusCode() != fiber.StatusOK {
			return httpx.WithRepErrMsg(c, httpx.Failed.Code, httpx.Failed.Msg, c.Path())
		}

		if detail := c.Locals(constant.DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}
		if c.Locals(constant.OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}

		return nil
	}
}
