package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sepsisapi/config"
)

func newRootCmd() *cobra.Command {
	var configPath string
	cfg := config.Default()

	root := &cobra.Command{
		Use:          "sepsis-api",
		Short:        "Sepsis prediction API",
		Long:         "Serves a pre-fitted imputer, scaler and classifier behind a single sepsis prediction endpoint.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded

			if _, err := config.InitLogger(cfg.Log); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file (missing file means defaults)")

	root.AddCommand(newServeCmd(cfg), newPredictCmd(cfg))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
