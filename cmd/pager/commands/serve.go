package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ncobase/pager/config"
	"github.com/ncobase/pager/logging/logger"
	"github.com/ncobase/pager/server"
	"github.com/ncobase/pager/version"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var (
		configPath string
		seed       bool
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Args:    cobra.NoArgs,
		Aliases: []string{"s"},
		Short:   "Start the HTTP server",
		Long: `Start the HTTP server.

The configuration file is taken from --config, then PAGER_CONFIG, then
config.yaml in the working directory, $HOME/.pager or /etc/pager.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath, seed)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")
	cmd.Flags().BoolVar(&seed, "seed", false, "load the demo catalog and push it to Meilisearch before serving")
	return cmd
}

func serve(ctx context.Context, configPath string, seed bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanup, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer cleanup()
	logger.SetVersion(version.GetVersionInfo().Version)

	srv, err := server.NewServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer srv.Cleanup()

	if seed {
		if err := srv.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.SetupRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof(ctx, "starting server on %s", cfg.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "server forced to shutdown: %v", err)
		return err
	}

	logger.Info(ctx, "server exited")
	return nil
}
