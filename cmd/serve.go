package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fusionlabs/profilegen/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		srv := server.New(env.Pipeline, env.Ingest, env.Store, serverCfg)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
