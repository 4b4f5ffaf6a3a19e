package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/adapter/postgres"
	blockrepo "github.com/tracklight/tracklight-backend/internal/adapter/postgres/block"
	eventrepo "github.com/tracklight/tracklight-backend/internal/adapter/postgres/event"
	"github.com/tracklight/tracklight-backend/internal/adapter/postgres/masterdata"
	rulerepo "github.com/tracklight/tracklight-backend/internal/adapter/postgres/rule"
	suggestionrepo "github.com/tracklight/tracklight-backend/internal/adapter/postgres/suggestion"
	"github.com/tracklight/tracklight-backend/internal/auth"
	"github.com/tracklight/tracklight-backend/internal/config"
	"github.com/tracklight/tracklight-backend/internal/ruleengine"
	"github.com/tracklight/tracklight-backend/internal/service/ingest"
	"github.com/tracklight/tracklight-backend/internal/service/rulebook"
	timelinesvc "github.com/tracklight/tracklight-backend/internal/service/timeline"
	"github.com/tracklight/tracklight-backend/internal/transport/middleware"
	"github.com/tracklight/tracklight-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires repositories, services and the HTTP transport, and
// serves until ctx is cancelled. Shutdown is graceful within the configured
// timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	eventRepo := eventrepo.New(pool)
	blockRepo := blockrepo.New(pool)
	ruleRepo := rulerepo.New(pool)
	suggestionRepo := suggestionrepo.New(pool)
	masterRepo := masterdata.New(pool)

	var orgID *uuid.UUID
	if cfg.Scope.OrgEnabled {
		id, err := masterRepo.GetOrCreateOrg(ctx, cfg.Scope.DefaultOrg)
		if err != nil {
			return fmt.Errorf("resolve default org: %w", err)
		}
		orgID = &id
		logger.Info("org scoping enabled", slog.String("org", cfg.Scope.DefaultOrg))
	}

	engine := ruleengine.New(nil)

	ingestService := ingest.NewService(logger, eventRepo)
	timelineService := timelinesvc.NewService(
		logger, eventRepo, blockRepo, suggestionRepo, ruleRepo, masterRepo,
		engine, txm, cfg.Compaction, orgID,
	)
	rulebookService := rulebook.NewService(logger, ruleRepo, orgID)

	var uiGuard middleware.Middleware
	if cfg.Auth.Enabled {
		jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
		uiGuard = middleware.Auth(jwtMgr)
		logger.Info("token auth enabled", slog.String("issuer", cfg.Auth.JWTIssuer))
	}

	mux := rest.NewMux(rest.Routes{
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
		Agent:      rest.NewAgentHandler(ingestService, logger),
		Timeline:   rest.NewTimelineHandler(timelineService, logger),
		Rules:      rest.NewRulesHandler(rulebookService, logger),
		Export:     rest.NewExportHandler(timelineService, logger),
		AgentGuard: middleware.AgentKey(cfg.Auth.AgentKey),
		UIGuard:    uiGuard,
	})

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	}
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.RateLimit.MaxPerMinute))
	}

	handler := middleware.Chain(mws...)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
