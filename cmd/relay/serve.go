package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	relay "github.com/goliatone/go-relay"
	"github.com/goliatone/go-relay/core"
	"github.com/goliatone/go-relay/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := loadSettings(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				v.Set("addr", addr)
			}

			svc, err := relay.New(relay.Config{}, core.WithConfigProvider(core.NewCfgxConfigProvider(relayConfigLoader(v))))
			if err != nil {
				return err
			}
			facade, err := relay.NewFacade(svc)
			if err != nil {
				return err
			}
			logger := svc.Logger()
			server, err := httpapi.New(httpConfig(v), facade, httpapi.WithLogger(logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("relay listening", "addr", v.GetString("addr"))
				errCh <- server.Start(v.GetString("addr"))
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			logger.Info("relay shutting down")
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
