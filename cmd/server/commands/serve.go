package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/amakodev/ADM-travels/internal/domain/checkout"
	"github.com/amakodev/ADM-travels/internal/domain/rates"
	"github.com/amakodev/ADM-travels/internal/external"
	"github.com/amakodev/ADM-travels/internal/jobs"
	"github.com/amakodev/ADM-travels/internal/storage/postgres"
	"github.com/amakodev/ADM-travels/internal/storage/redis"
)

const shutdownTimeout = 10 * time.Second

var runMigrations bool

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
	cmd.Flags().BoolVar(&runMigrations, "migrate", false, "apply ledger migrations before serving")
	return cmd
}

func serve(ctx context.Context) error {
	if cfg.YocoSecretKey == "" {
		log.Warn().Msg("YOCO_SECRET_KEY is not set, checkout requests will fail")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		c, err := redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, using in-process caches")
		} else {
			redisClient = c
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing Redis client")
				}
			}()
			log.Info().Msg("Connected to Redis")
		}
	}

	yoco := external.NewClient(cfg.YocoAPIURL, cfg.YocoSecretKey, cfg.YocoTimeout)

	var checkoutService *checkout.Service
	if cfg.LedgerEnabled() {
		if runMigrations {
			version, err := postgres.RunMigrations(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			log.Info().Uint("version", version).Msg("Migrations applied")
		}

		db, err := postgres.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info().Msg("Connected to PostgreSQL database")

		repo := postgres.NewCheckoutRepository(db)
		var cache checkout.Cache
		if redisClient != nil {
			cache = redis.NewCheckoutCache(redisClient)
		}
		checkoutService = checkout.NewServiceWithLedger(yoco, cfg.SiteURL, repo, cache)

		cleanupJob := jobs.NewCheckoutCleanupJob(repo, cache, cfg.CheckoutRetention, cfg.CleanupInterval)
		cleanupJob.Start()
		defer cleanupJob.Stop()
	} else {
		log.Info().Msg("DATABASE_URL not set, checkout ledger disabled")
		checkoutService = checkout.NewService(yoco, cfg.SiteURL)
	}

	var rateClient external.RateClientInterface
	if cfg.ExchangeRateAPIKey != "" {
		rateClient = external.NewRateClient(cfg.ExchangeRateAPIURL, cfg.ExchangeRateAPIKey, 5*time.Second)
	}
	var rateCache rates.Cache
	if redisClient != nil {
		rateCache = redis.NewRateCache(redisClient)
	}
	ratesService := rates.NewService(rateClient, rateCache, cfg.ExchangeRateTTL, cfg.FallbackExchangeRate)

	handler, err := NewRouter(cfg, checkoutService, ratesService)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   requestTimeout + 5*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("Server exited")
	return nil
}
