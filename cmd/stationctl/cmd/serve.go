package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/louagetn/station-client/internal/api"
	"github.com/louagetn/station-client/internal/core/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the session daemon and the local kiosk API",
	RunE: func(cmd *cobra.Command, args []string) error {
		l := log("serve")
		if listenOverride != "" {
			cfg.ListenAddr = listenOverride
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := buildStack(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.close()

		ctrl := service.NewAuthController(ctx, service.Manager(), st.client, log("auth"),
			service.WithSessionTTL(cfg.Session.TTL),
			service.WithRemoteTimeout(cfg.AuthAPI.Timeout),
		)

		states, cancelSub := ctrl.Subscribe()
		defer cancelSub()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case s := <-states:
					l.Info().Str("phase", string(s.Phase)).Bool("loading", s.IsLoading).Str("last_error", s.LastError).Msg("auth state changed")
				}
			}
		}()

		go func() {
			if err := ctrl.WaitReady(ctx); err != nil {
				return
			}
			ctrl.RunRefresh(ctx, cfg.Session.RefreshInterval)
		}()

		server := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           api.NewRouter(api.Deps{Controller: ctrl, Sessions: service.Manager(), Store: st.kv}, log("api")),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		l.Info().
			Str("addr", cfg.ListenAddr).
			Str("store", cfg.Store.Backend).
			Str("auth_api", cfg.AuthAPI.BaseURL).
			Dur("refresh_interval", cfg.Session.RefreshInterval).
			Msg("station client started")

		select {
		case <-ctx.Done():
			l.Info().Msg("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(sctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

var listenOverride string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenOverride, "listen", "", "Override LISTEN_ADDR")
}
