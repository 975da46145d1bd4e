package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"github.com/messias1976/Tesouraria-da-Igreja/internal/auth"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/feed"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/platform/config"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/platform/httpserver"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/platform/logger"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/platform/metrics"
	platformredis "github.com/messias1976/Tesouraria-da-Igreja/internal/platform/redis"
	httptransport "github.com/messias1976/Tesouraria-da-Igreja/internal/transport/http"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/treasury/service"
	memorystore "github.com/messias1976/Tesouraria-da-Igreja/internal/treasury/store/memory"
	postgresstore "github.com/messias1976/Tesouraria-da-Igreja/internal/treasury/store/postgres"
	"github.com/messias1976/Tesouraria-da-Igreja/internal/watch"
)

// main wires the collaborators and keeps the lifecycle small: the session
// authority, the treasury service and the HTTP boundary run under one
// errgroup and shut down together.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}

	var changeFeed feed.Feed
	var publisher feed.Publisher
	var boot watch.BootCache
	if redisClient != nil {
		rf := feed.NewRedisFeed(redisClient.Client)
		changeFeed, publisher = rf, rf
		boot = watch.NewRedisBootCache(redisClient.Client, log)
		defer redisClient.Close()
	} else {
		log.Warn("REDIS_URL not set, running with the in-process change feed")
		mf := feed.NewMemoryFeed()
		changeFeed, publisher = mf, mf
	}

	var store treasury.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		store = postgresstore.New(db, publisher, log)
	} else {
		log.Warn("DATABASE_URL not set, running with the in-memory store")
		store = memorystore.New(publisher)
	}

	provider := auth.NewMemoryProvider([]byte(cfg.JWTSigningKey))
	if _, err := provider.RegisterUser(cfg.DevUserEmail, cfg.DevUserPassword, "Tesoureiro"); err != nil {
		log.Error("seed dev user", "error", err)
		os.Exit(1)
	}

	tracker := httptransport.NewPathTracker()
	authority := auth.NewAuthority(provider, tracker, log, m)
	svc := service.New(authority, store, changeFeed, boot, log, m)

	handler := httptransport.NewHandler(svc, provider, tracker, m)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svc.Run(gctx)
	})

	g.Go(func() error {
		log.Info("starting tesouraria", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	authority.Start(ctx)
	defer authority.Teardown()

	if err := g.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
