// cmd/intake/cmd_serve.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eligibility-intake/internal/common/config"
	requestorchestrator "eligibility-intake/internal/intake/request-orchestrator"
	resultrenderer "eligibility-intake/internal/intake/result-renderer"
	"eligibility-intake/internal/intake/session"
	sessionapi "eligibility-intake/internal/intake/session-api"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the session API",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := rt.cfg.Server.Address
		if serveAddress != "" {
			addr = serveAddress
		}

		store := session.NewStore(config.Seconds(rt.cfg.Server.SessionIdleTTL), rt.log)
		orch := requestorchestrator.NewOrchestrator(
			requestorchestrator.LoadConfig(),
			rt.service,
			resultrenderer.NewRenderer(rt.cfg.Institutions),
			rt.obs,
			rt.log,
		)
		api := sessionapi.NewServer(sessionapi.Config{
			Names:       rt.cfg.Institutions,
			MetricsPath: rt.cfg.Server.MetricsPath,
		}, rt.service, store, orch, rt.log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go api.Sweep(ctx)

		srv := &http.Server{
			Addr:              addr,
			Handler:           api.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			rt.log.Info("session API listening", map[string]interface{}{
				"address":     addr,
				"serviceURL":  rt.cfg.Service.BaseURL,
				"cache":       rt.cfg.Cache.Backend,
				"metricsPath": rt.cfg.Server.MetricsPath,
			})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		rt.log.Info("shutdown signal received, stopping session API", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "listen address (overrides server.address)")
}
