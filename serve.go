package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sepsisapi/config"
	apihttp "sepsisapi/http"
	"sepsisapi/ml"
	"sepsisapi/prediction"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var (
		port         int
		artifactsDir string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the artifacts and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if artifactsDir != "" {
				cfg.Artifacts.Dir = artifactsDir
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			// loaded once; a failure leaves the server up in degraded mode
			result := ml.LoadArtifacts(cfg.Artifacts)
			handlers := apihttp.NewHandlers(prediction.NewPredictor(result.Artifacts()), result)
			server := apihttp.NewServer(serverConfig(cfg.Server), handlers)

			if cfg.WatchArtifacts {
				watcher := ml.NewArtifactWatcher(cfg.Artifacts, zap.L())
				go func() {
					if err := watcher.Run(ctx); err != nil {
						zap.L().Error("artifact watcher stopped", zap.Error(err))
					}
				}()
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			if err := server.Stop(); err != nil {
				zap.L().Error("server shutdown", zap.Error(err))
				return err
			}
			zap.L().Info("exiting")
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "server port (default from config)")
	cmd.Flags().StringVar(&artifactsDir, "artifacts-dir", "", "artifact directory (default from config)")
	return cmd
}

func serverConfig(c config.ServerConfig) apihttp.ServerConfig {
	sc := apihttp.DefaultServerConfig()
	sc.Host = c.Host
	sc.Port = c.Port
	if c.ReadTimeout > 0 {
		sc.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		sc.WriteTimeout = c.WriteTimeout
	}
	if c.ShutdownTimeout > 0 {
		sc.ShutdownTimeout = c.ShutdownTimeout
	}
	return sc
}
