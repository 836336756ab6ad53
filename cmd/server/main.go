package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resortAdmin/internal/config"
	"resortAdmin/internal/modules/admin/application/handler"
	"resortAdmin/internal/modules/admin/application/port"
	"resortAdmin/internal/modules/admin/application/usecase"
	"resortAdmin/internal/modules/admin/domain"
	"resortAdmin/internal/modules/admin/infrastructure"
	transport "resortAdmin/internal/modules/admin/interface"
	"resortAdmin/internal/platform/broker"
	"resortAdmin/internal/shared/logging"
)

func main() {
	// Load .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.Setup(cfg.Logging.Directory, logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("rest config resolved", slog.String("baseUrl", cfg.REST.BaseURL), slog.Duration("timeout", cfg.REST.Timeout))
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID), slog.Any("topics", cfg.Kafka.Topics))

	var fetcher port.AdminFetcher = infrastructure.NewAdminHTTPClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil)
	if cfg.Metrics.Enabled {
		metrics, err := infrastructure.NewFetchMetrics(prometheus.DefaultRegisterer)
		if err != nil {
			slog.Error("metrics registration failed", slog.Any("error", err))
			os.Exit(1)
		}
		fetcher = infrastructure.NewInstrumentedFetcher(fetcher, metrics)
	}

	sessions := newSessionStore(cfg.Redis)

	hub := infrastructure.NewHub()
	views := usecase.NewViewRegistry()
	registry := infrastructure.NewHandlerRegistry()
	broadcastUC := usecase.NewBroadcastUseCase(hub)

	allowedActions := []string{domain.ActionCreated, domain.ActionUpdated, domain.ActionDeleted}
	for _, topic := range cfg.Kafka.Topics {
		collection := collectionForTopic(topic)
		if collection == "" {
			slog.Warn("kafka topic not mapped to a collection", slog.String("topic", topic))
			continue
		}
		registry.Register(handler.NewCollectionChangedHandler(collection, topic, allowedActions, broadcastUC, views))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, registry.Topics())

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	adminHandler := transport.NewAdminHandler(transport.Dependencies{
		Hub:            hub,
		Views:          views,
		Fetcher:        fetcher,
		Sessions:       sessions,
		CookieName:     cfg.Session.CookieName,
		TokenKey:       cfg.Session.TokenKey,
		LoginPath:      cfg.Session.LoginPath,
		CommandTimeout: cfg.REST.Timeout + 2*time.Second,
	})
	adminHandler.RegisterRoutes(e)
	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.Handler()))
		slog.Info("prometheus metrics exposed", slog.String("path", cfg.Metrics.Path))
	}

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
}

// newSessionStore prefers Redis and falls back to an in-process store.
func newSessionStore(cfg config.RedisConfig) port.SessionStore {
	if !cfg.Enabled() {
		slog.Info("session store: memory")
		return infrastructure.NewMemorySessionStore()
	}
	client, err := infrastructure.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		slog.Warn("redis unavailable, using memory session store", slog.String("addr", cfg.Addr), slog.Any("error", err))
		return infrastructure.NewMemorySessionStore()
	}
	slog.Info("session store: redis", slog.String("addr", cfg.Addr), slog.Int("db", cfg.DB))
	return infrastructure.NewRedisSessionStore(client)
}

// collectionForTopic maps "bookings.events" style topic names to a collection.
func collectionForTopic(topic string) domain.Collection {
	prefix, _, _ := strings.Cut(strings.TrimSpace(topic), ".")
	collection, _ := domain.ParseCollection(prefix)
	return collection
}
