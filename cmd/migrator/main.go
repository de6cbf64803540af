package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/loyaltyops/promo-migrator/internal/api"
	"github.com/loyaltyops/promo-migrator/internal/clone"
	"github.com/loyaltyops/promo-migrator/internal/config"
	"github.com/loyaltyops/promo-migrator/internal/models"
	"github.com/loyaltyops/promo-migrator/internal/remote"
	"github.com/loyaltyops/promo-migrator/internal/store"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.Server.LogLevel)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	settings := clone.Settings{
		CallTimeout:      cfg.CallTimeout(),
		CodePollAttempts: cfg.Clone.CodePollAttempts,
		CodePollDelay:    cfg.CodePollDelay(),
		CodePageSize:     cfg.Clone.CodePageSize,
	}

	var runLog store.RunLog = store.NopLog{}
	if cfg.Postgres.DSN != "" {
		pg, err := store.NewPostgresLog(rootCtx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("init run log store")
		}
		defer pg.Close()
		runLog = pg
		log.Info().Msg("migration runs persisted to postgres")
	}

	server := &api.Server{
		Environments: models.NewEnvironmentStore(),
		Runs:         models.NewRunStore(),
		RunLog:       runLog,
		Settings:     settings,
	}

	// Load pre-configured environments from the seed file
	seeds, err := cfg.LoadEnvironments()
	if err != nil {
		log.Fatal().Err(err).Msg("loading environments file")
	}
	for _, ec := range seeds {
		env := &models.Environment{
			Name:     ec.Name,
			Kind:     ec.Kind,
			BaseURL:  ec.BaseURL,
			APIKey:   ec.APIKey,
			Insecure: ec.Insecure,
		}
		if env.Kind == "" {
			env.Kind = models.PlatformPromotions
		}
		server.Environments.Create(env)
		log.Info().Str("name", env.Name).Str("kind", env.Kind).Str("url", env.BaseURL).
			Msg("loaded environment")

		// Verify connectivity and auth early
		client := remote.NewClient(env, settings.CallTimeout)
		if err := client.Ping(); err != nil {
			log.Warn().Str("name", env.Name).Err(err).Msg("environment unreachable")
		}
	}

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     api.NewRouter(server),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	waitForSignal()
	log.Info().Msg("shutdown...")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	cancel()
	_ = srv.Shutdown(shCtx)
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
