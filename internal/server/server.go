package server

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

func New(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
	})

	app.Static("/uploads", "./uploads", fiber.Static{
		Compress:  true,
		ByteRange: true,
		Browse:    false,
		MaxAge:    3600,
	})

	// Collectors register once per process; the middleware is shared by
	// every app instance (test harness builds several).
	promOnce.Do(func() {
		prom = fiberprometheus.New("matercare")
	})
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	SetupRoutes(app)

	return app
}
