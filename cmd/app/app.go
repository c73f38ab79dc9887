package app

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
	"gorm.io/gorm"

	"github.com/lasoiree/venue-api/internal/api"
	"github.com/lasoiree/venue-api/internal/config"
	"github.com/lasoiree/venue-api/internal/db"
	"github.com/lasoiree/venue-api/internal/events"
	"github.com/lasoiree/venue-api/internal/logger"
	"github.com/lasoiree/venue-api/internal/repository/dao"
)

const (
	DefaultConfigPath = "./cmd/app/config.yml"
	shutdownTimeout   = 10 * time.Second
)

func Start(configPath string) error {
	conf, err := setup(configPath)
	if err != nil {
		return err
	}

	config.Watch(configPath, func(c *config.AppConfig) {
		if err := logger.SetLevel(c.API.LogLevel); err != nil {
			zap.L().Warn("config reload: invalid log level", zap.String("level", c.API.LogLevel), zap.Error(err))
			return
		}
		zap.L().Info("config reloaded", zap.String("log_level", c.API.LogLevel))
	})

	postgresDB, err := openDB(conf)
	if err != nil {
		return err
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to initialize tables -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub()
	go hub.Run(ctx)

	backends := api.Backends{Hub: hub}

	if conf.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			zap.L().Warn("redis unreachable, menu cache will miss until it recovers", zap.Error(err))
		}
		backends.Redis = rdb
	}

	if conf.RabbitMQ.URL != "" {
		rabbit, err := events.DialRabbit(conf.RabbitMQ.URL, conf.RabbitMQ.Exchange)
		if err != nil {
			zap.L().Warn("rabbitmq unavailable, events go to websocket subscribers only", zap.Error(err))
		} else {
			defer rabbit.Close()
			backends.Broker = rabbit
		}
	}

	s := api.NewServer(conf, postgresDB, backends)

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	zap.L().Info("server stopped")

	return nil
}

// Migrate creates the schema. With reset it drops every table first.
func Migrate(configPath string, reset bool) error {
	conf, err := setup(configPath)
	if err != nil {
		return err
	}

	postgresDB, err := openDB(conf)
	if err != nil {
		return err
	}

	if reset {
		zap.L().Warn("dropping all tables")
		if err = dao.DropAllTables(postgresDB); err != nil {
			return fmt.Errorf("failed to drop tables -> %w", err)
		}
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to initialize tables -> %w", err)
	}

	zap.L().Info("schema is up to date")

	return nil
}

func setup(configPath string) (*config.AppConfig, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level -> %w", err)
	}

	return conf, nil
}

func openDB(conf *config.AppConfig) (*gorm.DB, error) {
	var (
		postgresDB *gorm.DB
		err        error
	)

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	return postgresDB, nil
}
