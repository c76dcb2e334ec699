package handlers

import (
	"ecobayanihan/config"

	"github.com/gofiber/fiber/v2"
)

type schedulerStatus interface {
	IsRunning() bool
}

func HealthHandler(router fiber.Router, config config.Config, scheduler schedulerStatus) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"version":   config.GeneralVersion,
			"service":   "ecobayanihan_api",
			"scheduler": scheduler.IsRunning(),
		})
	})
}
