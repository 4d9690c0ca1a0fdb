package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wapi/internal/api"
	"wapi/internal/config"
	"wapi/internal/fetcher"
	"wapi/internal/store"
	"wapi/internal/weather"
	"wapi/internal/weatherapi"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if cfg.WeatherAPIKey == "" {
		slog.Error("WEATHERAPI_KEY is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to prepare database schema", "err", err)
		os.Exit(1)
	}

	transport := weatherapi.NewHTTPTransport(weatherapi.TransportConfig{
		BaseURL:  cfg.WeatherAPIBaseURL,
		Timeout:  cfg.HTTPTimeout,
		RetryMax: cfg.HTTPRetryMax,
		Logger:   logger.With("component", "weatherapi"),
	})
	client := weatherapi.NewClient(transport, weatherapi.ClientConfig{
		APIKey:   cfg.WeatherAPIKey,
		Language: cfg.Language,
		AQI:      cfg.AQI,
		Alerts:   cfg.Alerts,
		Tides:    cfg.Tides,
		OnError: func(op string, err error) {
			slog.Warn("weather api call failed", "op", op, "err", err)
		},
		OnSuccess: func(op string, status int) {
			slog.Debug("weather api call", "op", op, "status", status)
		},
	})
	if cfg.Language != "" {
		if _, ok := weatherapi.FindLanguage(cfg.Language); !ok {
			slog.Warn("unknown WEATHERAPI_LANG, using the service default", "lang", cfg.Language)
		}
	}

	svc := weather.NewService(db, weatherapi.NewProvider(client), cfg.ForecastCacheTTL)

	f := fetcher.New(client, db, cfg.TrackedLocations)
	go f.RunLoop(ctx, cfg.FetchInterval)

	mux := http.NewServeMux()
	handler := api.NewHandler(svc)
	handler.RegisterRoutes(mux)

	if len(cfg.ClientSecrets) == 0 {
		slog.Warn("CLIENT_SECRETS is not set, /v1/ requests are not authenticated")
	}
	signed := api.NewRequestSignatureMiddleware(cfg.ClientSecrets, 5*time.Minute)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      signed(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 5*time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
	slog.Info("server stopped")
}
