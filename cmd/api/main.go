package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/josh-kwaku/bankdesk/internal/cache"
	"github.com/josh-kwaku/bankdesk/internal/config"
	"github.com/josh-kwaku/bankdesk/internal/events"
	"github.com/josh-kwaku/bankdesk/internal/handler"
	"github.com/josh-kwaku/bankdesk/internal/logging"
	"github.com/josh-kwaku/bankdesk/internal/middleware"
	"github.com/josh-kwaku/bankdesk/internal/repository"
	"github.com/josh-kwaku/bankdesk/internal/service"
	"github.com/josh-kwaku/bankdesk/internal/service/workflow"
	"github.com/josh-kwaku/bankdesk/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("bankdesk-api", cfg.LogLevel, cfg.AppEnv)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	}, 30)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		applied, err := repository.Migrate(ctx, db, migrations.FS)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", "versions", applied)
	}

	checks := []handler.Check{{Name: "database", Ping: db.PingContext}}

	var banksCache service.BankCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		banksCache = cache.NewBankCache(rdb, cfg.BankCacheTTL)
		checks = append(checks, handler.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		logger.Info("bank cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.BankCacheTTL)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("bankdesk-api"), nats.MaxReconnects(-1))
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				logger.Warn("nats drain failed", "error", err)
			}
		}()
		publisher = events.NewNATSPublisher(nc, cfg.NATSSubjectPrefix)
		checks = append(checks, handler.Check{Name: "nats", Ping: func(context.Context) error {
			if !nc.IsConnected() {
				return errors.New("nats not connected")
			}
			return nil
		}})
		logger.Info("decision events enabled", "url", cfg.NATSURL, "prefix", cfg.NATSSubjectPrefix)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, db, banksCache, publisher, logger, checks),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func newRouter(
	cfg *config.Config,
	db *sql.DB,
	banksCache service.BankCache,
	publisher events.Publisher,
	logger *slog.Logger,
	checks []handler.Check,
) http.Handler {
	userRepo := repository.NewUserRepository(db)
	bankRepo := repository.NewBankRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	txnRepo := repository.NewTransactionRepository(db)

	userSvc := service.NewUserService(userRepo, bankRepo, cfg.BcryptCost)
	bankSvc := service.NewBankService(bankRepo, userRepo, banksCache, db, cfg.BcryptCost)
	accountSvc := service.NewAccountService(accountRepo, userRepo, bankRepo, publisher, cfg.AccountNumberAttempts)
	workflowSvc := workflow.NewService(accountRepo, txnRepo, userRepo, bankRepo, publisher, db, workflow.Options{
		AutoRejectOverdraft: cfg.AutoRejectOverdraft,
	})
	dashboardSvc := service.NewDashboardService(accountSvc, workflowSvc, userRepo, bankSvc)

	mux := handler.Routes(handler.Handlers{
		Health:       handler.NewHealthHandler(checks...),
		Auth:         handler.NewAuthHandler(userSvc),
		Banks:        handler.NewBankHandler(bankSvc),
		Accounts:     handler.NewAccountHandler(accountSvc),
		Transactions: handler.NewTransactionHandler(workflowSvc),
		Dashboards:   handler.NewDashboardHandler(dashboardSvc),
	})

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.Recovery,
	)
}
