package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-packshare/internal/config"
	"backend-packshare/internal/db"
	"backend-packshare/internal/logger"
	"backend-packshare/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	newLogger       func(env string) zerolog.Logger
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	pingRedis       func(context.Context, *redis.Client) error
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, zerolog.Logger, <-chan os.Signal, ListenFunc) error
	exit            func(code int)
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		newLogger:       logger.New,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		pingRedis: func(ctx context.Context, rdb *redis.Client) error {
			return rdb.Ping(ctx).Err()
		},
		notify: signal.Notify,
		run:    Run,
		exit:   os.Exit,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	log := deps.newLogger(cfg.Environment)

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		log.Error().Err(err).Msg("postgres connection failed")
		deps.exit(1)
		return
	}

	rdb := deps.connectRedis(cfg)
	if rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := deps.pingRedis(ctx, rdb); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, using in-process trip locks")
			_ = rdb.Close()
			rdb = nil
		}
		cancel()
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, pg, rdb, log, signals, nil); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		deps.exit(1)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger, signals <-chan os.Signal, listen ListenFunc) error {
	var store db.TxQuerier
	if pg != nil {
		store = pg
		if cfg.AutoMigrate {
			if err := db.Migrate(ctx, pg); err != nil {
				log.Error().Err(err).Msg("migration failed")
				return err
			}
		}
	}

	srv := server.NewServer(cfg, store, rdb, log)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()
	log.Info().Str("addr", cfg.ServerPort).Str("env", cfg.Environment).Msg("starting packshare api")

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server stopped")
	return nil
}
