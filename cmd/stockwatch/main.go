package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"stockwatch/internal/api"
	"stockwatch/internal/config"
	"stockwatch/internal/display"
	"stockwatch/internal/finnhub"
	"stockwatch/internal/mail"
	"stockwatch/internal/notify"
	"stockwatch/internal/prices"
	"stockwatch/internal/refresh"
	"stockwatch/internal/search"
	"stockwatch/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	if cfg.Finnhub.APIKey == "" {
		logger.Fatal().Msg("FINNHUB_API_KEY is required")
	}

	st := store.New(cfg.DataFile)
	cache := prices.NewCache()
	savedBoard := display.NewBoard()
	resultsBoard := display.NewBoard()

	quotes := finnhub.NewClient(cfg.Finnhub.APIKey, logger)
	mailer := mail.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
	notifier := notify.New(st, mailer, logger)
	engine := refresh.NewEngine(st, cache, savedBoard, quotes, notifier,
		cfg.Refresh.Interval, cfg.Refresh.Concurrency, logger)
	flow := search.NewFlow(quotes, st, cache, savedBoard, resultsBoard, logger)

	handler := api.NewHandler(st, cache, savedBoard, flow, quotes, logger)
	router := api.SetupRoutes(handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go engine.Run(ctx)

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Dur("refresh_interval", cfg.Refresh.Interval).
		Str("data_file", cfg.DataFile).
		Msg("stockwatch starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("stockwatch stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
