package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/marisimondelossantos-spec/petshop/internal/app"
	"github.com/marisimondelossantos-spec/petshop/internal/events"
	petshophttp "github.com/marisimondelossantos-spec/petshop/internal/http"
	"github.com/marisimondelossantos-spec/petshop/internal/store"
	"github.com/marisimondelossantos-spec/petshop/pkg/config"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, cleanup, err := openBackend(ctx, &cfg, log)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.StoreBackend, err)
	}
	defer cleanup()

	var forward func(events.Event)
	if len(cfg.KafkaBrokers) > 0 {
		bridge := events.NewBridge(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer bridge.Close()
		forward = bridge.Forward
		log.Info("kafka bridge enabled",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}

	sessions := app.NewRegistry(app.RegistryDeps{
		Config:  &cfg,
		KV:      kv,
		Logger:  log,
		Forward: forward,
	})
	defer sessions.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      petshophttp.NewRouter(sessions),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("backend", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.KV, func(), error) {
	nop := func() {}
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemoryKV(), nop, nil
	case "file":
		kv, err := store.NewFileKV(cfg.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return kv, nop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Warn("close redis", zap.Error(err))
			}
		}
		return store.NewRedisKV(client), cleanup, nil
	case "mongo":
		db, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Client().Disconnect(disconnectCtx); err != nil {
				log.Warn("disconnect mongo", zap.Error(err))
			}
		}
		return store.NewMongoKV(db), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
