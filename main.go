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

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"flowy/app/config"
	"flowy/app/controllers"
	"flowy/app/logging"
	"flowy/app/routes"
	"flowy/app/services"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal("flowy exited", "err", err)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var configFile string

	cmd := &cobra.Command{
		Use:           "flowy",
		Short:         "Serve the flowy task API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "path to a yaml, toml or json config file")
	flags.String("addr", ":8000", "listen address")
	flags.String("backend", config.BackendRedis, "task store backend (redis or neo4j)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	bindFlag(v, "addr", cmd, "addr")
	bindFlag(v, "backend", cmd, "backend")
	bindFlag(v, "log.level", cmd, "log-level")

	return cmd
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	store, err := services.Open(cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("closing store", "err", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn("store not reachable yet; requests will fail until it is", "backend", cfg.Backend, "err", err)
	}
	cancel()

	taskController := controllers.NewTaskController(store, logger)
	taskController.MaxBodyBytes = cfg.MaxBodyBytes

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           routes.NewHandler(taskController, cfg.APIKey, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", "addr", cfg.Addr, "backend", cfg.Backend)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("shutdown complete")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
