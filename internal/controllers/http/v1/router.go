package http

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jackiefasty/weather-data-visualization-app/internal/services/forecast"
	"github.com/jackiefasty/weather-data-visualization-app/internal/services/location"
	"github.com/jackiefasty/weather-data-visualization-app/internal/services/patterns"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

type routes struct {
	forecasts  *forecast.Service
	resolver   *location.Resolver
	classifier *patterns.Classifier
	l          *observe.Logger
}

func NewRouter(
	app *fiber.App,
	forecasts *forecast.Service,
	resolver *location.Resolver,
	classifier *patterns.Classifier,
	l *observe.Logger,
) {
	r := &routes{
		forecasts:  forecasts,
		resolver:   resolver,
		classifier: classifier,
		l:          l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(fiber.Map{"error": "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	app.Get("/api/search", r.handleSearch)
	app.Get("/api/weather", r.handleWeather)
	app.Get("/api/weather/by-address", r.handleWeatherByAddress)
	app.Get("/api/ai-patterns", r.handlePatterns)
}
