// Command compact performs a one-shot rebuild of a single scope's day:
// compacts raw events into blocks and recomputes rule suggestions. It is
// intended to be invoked by an external cron job or for ad hoc backfills.
//
// Usage:
//
//	compact --user=alice --hostname=mbp [--day=2025-03-10]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tracklight/tracklight-backend/internal/adapter/postgres"
	blockrepo "github.com/tracklight/tracklight-backend/internal/adapter/postgres/block"
	eventrepo "github.com/tracklight/tracklight-backend/internal/adapter/postgres/event"
	"github.com/tracklight/tracklight-backend/internal/adapter/postgres/masterdata"
	rulerepo "github.com/tracklight/tracklight-backend/internal/adapter/postgres/rule"
	suggestionrepo "github.com/tracklight/tracklight-backend/internal/adapter/postgres/suggestion"
	"github.com/tracklight/tracklight-backend/internal/app"
	"github.com/tracklight/tracklight-backend/internal/config"
	"github.com/tracklight/tracklight-backend/internal/domain"
	"github.com/tracklight/tracklight-backend/internal/ruleengine"
	timelinesvc "github.com/tracklight/tracklight-backend/internal/service/timeline"
)

func main() {
	user := flag.String("user", "", "scope user")
	hostname := flag.String("hostname", "", "scope hostname")
	dayFlag := flag.String("day", "", "day to rebuild in YYYY-MM-DD (default today)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	day := time.Now()
	if *dayFlag != "" {
		loc := cfg.Compaction.Location
		if loc == nil {
			loc = time.Local
		}
		day, err = time.ParseInLocation("2006-01-02", *dayFlag, loc)
		if err != nil {
			logger.Error("invalid --day", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	masterRepo := masterdata.New(pool)

	var orgID *uuid.UUID
	if cfg.Scope.OrgEnabled {
		id, err := masterRepo.GetOrCreateOrg(ctx, cfg.Scope.DefaultOrg)
		if err != nil {
			logger.Error("resolve default org", slog.String("error", err.Error()))
			os.Exit(1)
		}
		orgID = &id
	}

	svc := timelinesvc.NewService(
		logger,
		eventrepo.New(pool),
		blockrepo.New(pool),
		suggestionrepo.New(pool),
		rulerepo.New(pool),
		masterRepo,
		ruleengine.New(nil),
		txm,
		cfg.Compaction,
		orgID,
	)

	scope := domain.Scope{User: *user, Hostname: *hostname}

	blocks, err := svc.BlocksForDay(ctx, scope, day)
	if err != nil {
		logger.Error("rebuild failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	suggestions, err := svc.SuggestionsForDay(ctx, scope, day)
	if err != nil {
		logger.Error("suggestion recompute failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("rebuild completed",
		slog.String("user", *user),
		slog.String("hostname", *hostname),
		slog.Time("day", day),
		slog.Int("blocks", len(blocks)),
		slog.Int("suggestions", len(suggestions)),
	)
}
