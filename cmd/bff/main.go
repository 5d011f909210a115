// Command bff runs the web backend-for-frontend.
//
//	@title						Finance BFF (web)
//	@version					1.0
//	@description				Backend-for-frontend for the web client: JWT login and account summaries.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/finance/bff-web/internal/api"
	"github.com/finance/bff-web/internal/api/handler"
	"github.com/finance/bff-web/internal/core/ports"
	"github.com/finance/bff-web/internal/core/service"
	"github.com/finance/bff-web/internal/infrastructure/db/memory"
	mongodb "github.com/finance/bff-web/internal/infrastructure/db/mongo"
	redisdb "github.com/finance/bff-web/internal/infrastructure/db/redis"
	"github.com/finance/bff-web/internal/infrastructure/security"
	"github.com/finance/bff-web/internal/infrastructure/upstream"
	"github.com/finance/bff-web/internal/pkg/config"
	"github.com/finance/bff-web/pkg/logger"
)

const serviceName = "bff-web"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bff: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	key, err := security.LoadSigningKey(cfg.JWTSecret, cfg.Env, log)
	if err != nil {
		return err
	}
	codec, err := security.NewCodec(key)
	if err != nil {
		return err
	}

	readiness := map[string]handler.PingFunc{}

	store, ping, closeStore, err := openPrincipalStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()
	if ping != nil {
		readiness["mongodb"] = ping
	}

	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, ClientName: serviceName})
		if err != nil {
			return err
		}
		defer rdb.Close()
		throttle = redisdb.NewLoginThrottle(rdb, cfg.Login.MaxAttempts, cfg.Login.LockoutWindow)
		readiness["redis"] = redisdb.Pinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("login throttling enabled")
	}

	e := api.NewRouter(api.Dependencies{
		Auth:      service.NewAuthService(store, codec, throttle, log),
		Summary:   service.NewSummaryService(upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout), log),
		Log:       log,
		Readiness: readiness,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("upstream", cfg.Upstream.BaseURL).
			Str("principal_store", cfg.Principals.Store).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openPrincipalStore returns the configured store, its readiness check (nil
// for the in-memory store) and a close function.
func openPrincipalStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.PrincipalStore, handler.PingFunc, func(), error) {
	p := cfg.Principals
	if p.Store != config.StoreMongo {
		store, err := memory.NewPrincipalStore(memory.User{Username: p.Username, Password: p.Password, Role: p.Role})
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("username", p.Username).Msg("using in-memory principal store")
		return store, nil, func() {}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: serviceName})
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() { _ = client.Disconnect(context.Background()) }

	repo := mongodb.NewPrincipalRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("principal indexes: %w", err)
	}
	if err := repo.Seed(ctx, p.Username, p.Password, p.Role); err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo principal store")
	return repo, mongodb.Pinger(db), closeFn, nil
}
