package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fusionlabs/profilegen/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "profilegen",
	Short: "Unified company profile generation pipeline",
	Long:  "Fuses website, product, job-posting and news text into structured company profiles via semantic retrieval, generative extraction and hierarchical industry classification.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
