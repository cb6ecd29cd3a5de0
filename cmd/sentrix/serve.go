package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"sentrix/internal/app/provider"
	"sentrix/internal/infrastructure/auth"
	"sentrix/internal/infrastructure/restapi"
	"sentrix/internal/pkg/logger"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		logger.Warn("Required configuration missing, health check will report unhealthy", "missing", missing)
	}
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	services, err := provider.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer services.Close()

	l := logger.Named("http")
	router := restapi.SetupRouter(restapi.RouterDeps{
		Wallets:      restapi.NewWalletHandler(services.Wallets, l),
		Transactions: restapi.NewTransactionHandler(services.Resolver, services.Fetcher, services.Transactions, services.Networks, l),
		Security:     restapi.NewSecurityHandler(services.Security, l),
		Health:       restapi.NewHealthHandler(services.DB(), cfg.MissingRequired(), version, l),
		Verifier:     auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience),
		Limiter:      services.Limiter,
		CORSOrigins:  cfg.Server.CORSOrigins,
		AccessLog:    logger.Zap().Named("access"),
		Logger:       l,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server exiting")
	return nil
}
