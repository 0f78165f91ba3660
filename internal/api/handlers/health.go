package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Health is a liveness probe.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
