package cmd

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
	"github.com/spf13/cobra"

	"sqlchat/cache"
	"sqlchat/conversation"
	"sqlchat/db"
	"sqlchat/handlers"
	"sqlchat/logger"
	"sqlchat/service"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page and API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			log := logger.Component("server")

			store, err := db.New()
			if err != nil {
				return err
			}
			defer store.Close()

			client, err := service.NewQueryClient(cfg.QueryEndpoint, cfg.QueryTimeout)
			if err != nil {
				return err
			}
			sessions := cache.NewSessions(store, cfg.SessionTTL, cfg.SessionCleanup,
				conversation.WithMaxPromptLength(cfg.MaxPromptLength))

			gin.SetMode(cfg.GinMode)
			h := handlers.New(sessions, service.NewAssistant(client), client.Endpoint())
			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           handlers.NewRouter(h, cfg.CORSOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Str("query_endpoint", cfg.QueryEndpoint).Msg("server starting")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to start server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.QueryTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}
