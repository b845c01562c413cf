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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	addrFlag string
	seedFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "fitrack",
	Short: "fitrack serves the fitness tracking API",
	Long: "fitrack serves the fitness tracking API: accounts, food and exercise catalogs, " +
		"meal and workout logs, goals and daily summaries.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr = addrFlag
		}
		if cmd.Flags().Changed("seed") {
			cfg.SeedCatalog = seedFlag
		}
		return runServer(cmd.Context(), cfg)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed empty food and exercise catalogs, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := newLogger(logConfig{Level: cfg.LogLevel, JSON: cfg.LogJSON})
		s, err := newPGStore(cmd.Context(), cfg.DBURL, log.With().Str("component", "store").Logger())
		if err != nil {
			return err
		}
		defer s.close()
		return seedCatalog(cmd.Context(), s, time.Now(), log)
	},
}

func init() {
	rootCmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (overrides ADDR)")
	rootCmd.Flags().BoolVar(&seedFlag, "seed", true, "Seed empty catalogs at startup (overrides SEED_CATALOG)")
	rootCmd.AddCommand(seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runServer connects the store, optionally seeds the catalogs and serves the
// API until ctx is cancelled.
func runServer(ctx context.Context, cfg *config) error {
	log := newLogger(logConfig{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := newPGStore(ctx, cfg.DBURL, log.With().Str("component", "store").Logger())
	if err != nil {
		return err
	}
	defer s.close()
	log.Info().Msg("DB pool ready")

	if cfg.SeedCatalog {
		if err := seedCatalog(ctx, s, time.Now(), log); err != nil {
			return err
		}
	}

	h := newHandler(s, newTokenIssuer(cfg.JWTSecret, cfg.TokenTTL), log.With().Str("component", "api").Logger())
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(h, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
