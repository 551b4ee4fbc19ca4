package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/fusionwear/storefront/api/routes"
	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/chat"
	"github.com/fusionwear/storefront/pkg/config"
	"github.com/fusionwear/storefront/pkg/env"
	"github.com/fusionwear/storefront/pkg/groq"
	"github.com/fusionwear/storefront/pkg/instance"
	"github.com/fusionwear/storefront/pkg/logger"
	"github.com/fusionwear/storefront/pkg/metrics"
	"github.com/fusionwear/storefront/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	chatMetrics := metrics.NewChatMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	loader := catalog.NewLoader(cfg.Catalog.Source,
		catalog.WithLogger(logg),
		catalog.WithTimeout(cfg.Catalog.FetchTimeout),
	)
	cat, err := loader.Load(ctx)
	if err != nil {
		logg.Error(logg.WithField(ctx, "source", cfg.Catalog.Source), "catalog unavailable, serving without products", err)
	}

	var closers []func() error

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
	}

	var completer chat.Completer
	if cfg.Chat.APIKey != "" {
		client, err := groq.NewClient(cfg.Chat.APIKey,
			groq.WithBaseURL(cfg.Chat.BaseURL),
			groq.WithTimeout(cfg.Chat.Timeout),
			groq.WithLogger(logg),
			groq.WithBreaker(groq.BreakerSettings{
				MaxRequests:  cfg.Chat.BreakerMaxRequests,
				Interval:     cfg.Chat.BreakerInterval,
				Timeout:      cfg.Chat.BreakerTimeout,
				FailureRatio: cfg.Chat.BreakerFailureRatio,
				MinRequests:  cfg.Chat.BreakerMinRequests,
			}),
			groq.WithStateListener(chatMetrics.SetBreakerState),
		)
		if err != nil {
			logg.Error(ctx, "failed to create chat client", err)
			os.Exit(1)
		}
		completer = client
	} else {
		logg.Warn(ctx, "GROQ_API_KEY not set, chat requests will fail")
	}
	chatService := chat.NewService(cfg.Chat, cat, completer, chatMetrics, logg)

	port := env.First(cfg.App.Port, "PORT")
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"products": cat.Len(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Catalog:  cat,
			Chat:     chatService,
			Redis:    redisClient,
			Metrics:  httpMetrics,
			Gatherer: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	for _, closeFn := range closers {
		err = multierr.Append(err, closeFn())
	}
	if err != nil {
		logg.Error(shutdownCtx, "error during shutdown", err)
		exitCode = 1
	}
	if exitCode != 0 {
		stop()
		os.Exit(exitCode)
	}
}
