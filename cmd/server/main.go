package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hookbridge/hookbridge/auth"
	"github.com/hookbridge/hookbridge/github"
	"github.com/hookbridge/hookbridge/internal/config"
	"github.com/hookbridge/hookbridge/postgres"
	"github.com/hookbridge/hookbridge/server"
	"github.com/hookbridge/hookbridge/sessions"
	"github.com/hookbridge/hookbridge/sessions/redisrepo"
	sessionrepofakes "github.com/hookbridge/hookbridge/sessions/repofakes"
	"github.com/hookbridge/hookbridge/tenants"
	tenantrepofakes "github.com/hookbridge/hookbridge/tenants/repofakes"
	"github.com/hookbridge/hookbridge/wechat"
	wechatrepofakes "github.com/hookbridge/hookbridge/wechat/repofakes"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	cfg := config.New()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	displayAppname(cfg.GetAppName())

	tenantRepo, wechatRepo, cleanup, err := buildStores(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	provider := github.New(cfg.GetGitHubClientID(), cfg.GetGitHubClientSecret(), cfg.GetGitHubRedirectURL())

	authService, err := auth.NewService(provider, tenantRepo)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, authService, buildSessionRepo(cfg), wechatRepo)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildStores returns the Postgres-backed repos when DATABASE_URL is set and
// in-memory ones otherwise, so the service runs locally with no dependencies.
func buildStores(cfg config.Config) (tenants.Repo, wechat.Repo, func(), error) {
	if cfg.GetDatabaseURL() == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory stores")
		return tenantrepofakes.NewFakeTenantRepo(), wechatrepofakes.NewFakeWeChatRepo(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := postgres.New(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build stores: %w", err)
	}
	return store.Tenants(), store.WeChat(), store.Close, nil
}

func buildSessionRepo(cfg config.Config) sessions.Repo {
	if cfg.GetRedisAddr() == "" {
		log.Warn().Msg("REDIS_ADDR not set, sessions will not survive restarts")
		return sessionrepofakes.NewFakeSessionRepo()
	}
	return redisrepo.New(cfg.GetRedisAddr(), cfg.GetRedisDB(), cfg.GetSessionTTL())
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
