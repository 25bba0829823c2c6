package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nurpe/tenant-improvements/internal/auth"
	"github.com/nurpe/tenant-improvements/internal/config"
	"github.com/nurpe/tenant-improvements/internal/db"
	"github.com/nurpe/tenant-improvements/internal/excel"
	httphandler "github.com/nurpe/tenant-improvements/internal/http"
	"github.com/nurpe/tenant-improvements/internal/http/middleware"
	"github.com/nurpe/tenant-improvements/internal/logger"
	"github.com/nurpe/tenant-improvements/internal/metrics"
	"github.com/nurpe/tenant-improvements/internal/pdf"
	"github.com/nurpe/tenant-improvements/internal/repository"
	"github.com/nurpe/tenant-improvements/internal/service"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the registry schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.New(cfg.Environment)

			database, err := db.New(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to connect database: %w", err)
			}
			if err := db.RunMigrations(database); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.New(cfg.Environment)

			database, err := db.New(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to connect database: %w", err)
			}
			if migrate {
				if err := db.RunMigrations(database); err != nil {
					return err
				}
			}

			recorder, err := metrics.NewRecorder(prometheus.DefaultRegisterer)
			if err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}

			store := repository.NewStore(database)
			services := httphandler.Services{
				Properties:  service.NewPropertyService(store, cfg, log, recorder),
				Contractors: service.NewContractorService(store, cfg, log, recorder),
				Projects:    service.NewProjectService(store, log, recorder),
				Allowances:  service.NewAllowanceService(store, cfg, log, recorder),
				Statements:  service.NewStatementService(store, excel.NewGenerator(), pdf.NewGenerator()),
				Ledger:      service.NewLedgerService(store),
			}

			tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
			handler := httphandler.NewHandler(services, log)
			authMiddleware := middleware.Auth(tokenParser)
			router := httphandler.NewRouter(handler, authMiddleware, promhttp.Handler(), cfg.Environment, cfg.HTTP.CORSOrigins, log)

			addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
			server := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().
					Str("addr", addr).
					Str("admin", cfg.Registry.AdminPrincipal).
					Msg("starting improvements service")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply schema migrations before serving")
	return cmd
}
