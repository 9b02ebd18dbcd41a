package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/projectavishkar/krishimitra/internal/config"
	"github.com/projectavishkar/krishimitra/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the farming assistant server",
	Long:  `Start the HTTP server that serves weather snapshots, disease analysis, and the chat assistant with observability built in.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting farming assistant server",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Bool("local_model_enabled", cfg.LocalModel.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	srv := server.NewServer(log.Desugar(), tele)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
