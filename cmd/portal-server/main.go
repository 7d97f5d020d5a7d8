// cmd/portal-server/main.go
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

	"go.uber.org/zap"

	"membership-portal/internal/common/auth"
	"membership-portal/internal/common/config"
	"membership-portal/internal/common/database"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/common/observability"
	routeguard "membership-portal/internal/features/access/route-guard"
	exportapplications "membership-portal/internal/features/admin/export-applications"
	listapplications "membership-portal/internal/features/admin/list-applications"
	formstate "membership-portal/internal/features/application/form-state"
	savedraft "membership-portal/internal/features/application/save-draft"
	sendconfirmation "membership-portal/internal/features/application/send-confirmation"
	submitapplication "membership-portal/internal/features/application/submit-application"
	validateapplication "membership-portal/internal/features/application/validate-application"
	authlogout "membership-portal/internal/features/auth/auth-logout"
	authsigningoogle "membership-portal/internal/features/auth/auth-signin-google"
	sessionstore "membership-portal/internal/features/auth/session-store"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	httptransport "membership-portal/internal/transport/http"
	"membership-portal/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting membership portal...",
		zap.String("environment", cfg.App.Environment),
		zap.String("storeDriver", cfg.Store.Driver),
		zap.Bool("formOpen", cfg.Form.Open),
	)

	obs := observability.New("portal-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Application store ---
	storeCfg := applicationstore.LoadConfig(cfg.Store)
	var pg *database.PostgresClient
	var es *database.ElasticsearchClient

	switch storeCfg.Driver {
	case config.StoreDriverPostgres:
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx, storeCfg.Collection); err != nil {
			zapLog.Fatal("failed to prepare applications table", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully")

	case config.StoreDriverElasticsearch:
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := es.EnsureIndex(ctx, storeCfg.Collection); err != nil {
			zapLog.Fatal("failed to prepare applications index", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	store, err := applicationstore.New(storeCfg, pg, es, log)
	if err != nil {
		zapLog.Fatal("failed to create application store", zap.Error(err))
	}

	// --- Sessions ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	sessions := sessionstore.New(sessionstore.LoadConfig(cfg.Auth), redis.Client, log)

	// --- Features ---
	reg, err := registry.LoadOrDefault(cfg.Form.RegistryPath)
	if err != nil {
		zapLog.Fatal("failed to load form registry", zap.Error(err))
	}

	validatorCfg := validateapplication.LoadConfig()
	validatorCfg.Registry = reg
	validator := validateapplication.NewHandler(validatorCfg, log)

	notifier, err := sendconfirmation.NewHandlerFromAWS(ctx,
		sendconfirmation.LoadConfig(cfg.Notifications, cfg.Auth.InstitutionName), log)
	if err != nil {
		zapLog.Fatal("failed to create confirmation notifier", zap.Error(err))
	}

	drafts := savedraft.NewHandler(savedraft.LoadConfig(cfg.Form), store, log)

	signInCfg := authsigningoogle.LoadConfig(cfg.Auth)
	if err := signInCfg.Validate(); err != nil {
		zapLog.Fatal("invalid sign-in configuration", zap.Error(err))
	}
	signIn := authsigningoogle.NewService(authsigningoogle.ServiceDependencies{
		Provider: auth.NewGoogleProvider(cfg.Auth.Google, cfg.Auth.AllowedDomain),
		Sessions: sessions,
		Logger:   log,
	}, signInCfg)

	logout := authlogout.NewService(authlogout.ServiceDependencies{
		Sessions: sessions,
		Drafts:   drafts,
		Logger:   log,
	}, authlogout.DefaultConfig())

	list := listapplications.NewHandler(listapplications.LoadConfig(cfg.Store), store, log)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Config:        cfg.Server,
		Logger:        log,
		Observability: obs,
		Sessions:      sessions,
		Guard:         routeguard.NewHandler(routeguard.LoadConfig(cfg.Auth, cfg.Form), store, log),
		SignIn:        signIn,
		Logout:        logout,
		Form:          formstate.NewHandler(formstate.LoadConfig(reg), validator, log),
		Drafts:        drafts,
		Submit: submitapplication.NewHandler(submitapplication.LoadConfig(cfg.Form),
			store, drafts, validator, notifier, log),
		List:   list,
		Export: exportapplications.NewHandler(exportapplications.LoadConfig(cfg.Export), list, log),
		Checks: map[string]httptransport.ReadinessCheck{
			"redis": redis.Ping,
			"store": store.Ping,
		},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:      config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr), zap.String("basePath", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	// pending drafts are written before the store connections close
	if err := drafts.Close(shutdownCtx); err != nil {
		zapLog.Error("Error flushing pending drafts", zap.Error(err))
	}

	zapLog.Info("Membership portal stopped gracefully")
}
