package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jackiefasty/weather-data-visualization-app/config"
	v1 "github.com/jackiefasty/weather-data-visualization-app/internal/controllers/http/v1"
	"github.com/jackiefasty/weather-data-visualization-app/internal/repositories"
	"github.com/jackiefasty/weather-data-visualization-app/internal/services/forecast"
	"github.com/jackiefasty/weather-data-visualization-app/internal/services/location"
	"github.com/jackiefasty/weather-data-visualization-app/internal/services/patterns"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/httpserver"
	"github.com/jackiefasty/weather-data-visualization-app/pkg/observe"
)

// @title Weather Data Visualization API
// @version 1.0.0
// @description Cloud cover and lightning probability forecasts from SMHI open data,
// @description with geocoded location search and model-derived atmospheric pattern probabilities.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Weather
// @tag.description Forecast retrieval and aggregation
// @tag.name Location
// @tag.description Free-text location search
// @tag.name Patterns
// @tag.description Atmospheric pattern inference
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	_ = godotenv.Load()

	cnf := config.NewConfig()

	writers := []io.Writer{os.Stdout}
	if cnf.SentryDSN != "" {
		writers = append(writers, observe.NewSentryHook(cnf.AppEnv, cnf.AppName, cnf.IsDevelopment(), cnf.SentryDSN))
	}
	l := observe.NewZapLogger(cnf.AppName, writers...)

	metrics := observe.NewMetrics()

	app := httpserver.InitFiberServer(cnf.AppName)

	forecastRepo, geocodeRepo := repositories.InitRepositories(cnf, l)

	forecasts := forecast.NewService(forecastRepo, l, metrics)
	resolver := location.NewResolver(geocodeRepo, cnf.Nominatim.CandidateLimit, l, metrics)
	classifier := patterns.NewClassifier(patterns.NewLoader(cnf.ModelPath), l, metrics)

	v1.NewRouter(
		app,
		forecasts,
		resolver,
		classifier,
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":      cnf.Port,
		"modelPath": cnf.ModelPath,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
