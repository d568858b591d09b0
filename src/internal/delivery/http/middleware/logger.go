package middleware

import (
	"fmt"
	"time"

	"lpg-marketplace/src/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// NewLogger logs one line per request after the handler ran.
func NewLogger() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		logger := log.GetLogger()
		logger.Info(
			"http",
			fmt.Sprintf("%s %s -> %d", ctx.Method(), ctx.Path(), ctx.Response().StatusCode()),
			"request",
			time.Since(start).String(),
		)
		return err
	}
}
