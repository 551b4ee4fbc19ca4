package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/fusionwear/storefront/internal/catalog"
	"github.com/fusionwear/storefront/internal/chat"
	"github.com/fusionwear/storefront/internal/shell"
	"github.com/fusionwear/storefront/internal/state"
	"github.com/fusionwear/storefront/pkg/config"
	"github.com/fusionwear/storefront/pkg/db"
	"github.com/fusionwear/storefront/pkg/kv"
	"github.com/fusionwear/storefront/pkg/logger"
	"github.com/fusionwear/storefront/pkg/migrate"
	"github.com/fusionwear/storefront/pkg/redis"
)

func main() {
	// logs go to stderr; stdout belongs to the shell
	logg := logger.New(logger.Options{ServiceName: "storefront", Output: os.Stderr})

	if err := godotenv.Load(); err != nil {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	closeAll := func() {
		var errs error
		for _, closeFn := range closers {
			errs = multierr.Append(errs, closeFn())
		}
		if errs != nil {
			logg.Error(context.Background(), "error releasing resources", errs)
		}
	}

	deps := kv.Deps{}
	switch cfg.State.Backend {
	case config.StateBackendSQL:
		dbClient, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)
		if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
			closeAll()
			logg.Error(ctx, "failed to run migrations", err)
			os.Exit(1)
		}
		deps.DB = dbClient
	case config.StateBackendRedis:
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)
		deps.Redis = redisClient
	}

	store, err := kv.Open(cfg.State, deps)
	if err != nil {
		closeAll()
		logg.Error(ctx, "failed to open state store", err)
		os.Exit(1)
	}

	cat, err := catalog.NewLoader(cfg.Catalog.Source,
		catalog.WithLogger(logg),
		catalog.WithTimeout(cfg.Catalog.FetchTimeout),
	).Load(ctx)
	if err != nil {
		logg.Warn(logg.WithFields(ctx, map[string]any{"source": cfg.Catalog.Source, "error": err.Error()}), "catalog unavailable")
	}

	var asker shell.Asker
	if cfg.Chat.ProxyURL != "" {
		asker = chat.NewClient(cfg.Chat.ProxyURL, chat.WithClientHTTP(&http.Client{Timeout: cfg.Chat.Timeout}))
	}

	sh := shell.New(ctx, shell.Config{
		Out:     os.Stdout,
		Catalog: cat,
		Store:   state.New(store, logg),
		Asker:   asker,
		Logger:  logg,
	})

	runErr := sh.Run(ctx, os.Stdin)
	closeAll()
	if runErr != nil && ctx.Err() == nil {
		logg.Error(ctx, "shell stopped unexpectedly", runErr)
		stop()
		os.Exit(1)
	}
}
