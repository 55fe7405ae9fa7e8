package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/sells-group/gta-evmap/internal/session"
	"github.com/sells-group/gta-evmap/internal/trend"
	"github.com/sells-group/gta-evmap/internal/web"
)

var servePort int

// sessionSweepInterval is how often expired sessions are purged.
const sessionSweepInterval = 15 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		env, err := initDashboard(ctx, "serve")
		if err != nil {
			return err
		}

		sessions, err := session.Open(ctx, cfg.Session.Driver, cfg.Session.DSN,
			time.Duration(cfg.Session.TTLHours)*time.Hour)
		if err != nil {
			return err
		}
		defer sessions.Close() //nolint:errcheck

		srv := web.New(web.Options{
			Renderer: env.Renderer,
			Catalog:  env.Catalog,
			Sessions: sessions,
			Trend: func(ctx context.Context) ([]byte, error) {
				points, err := trend.Aggregate(ctx, env.Catalog, nil)
				if err != nil {
					return nil, err
				}
				return trend.Chart(points, 8*vg.Inch, 4*vg.Inch)
			},
			CacheStats:     env.Source.CacheStats,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		})

		go sweepSessions(ctx, sessions)

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			stats := env.Source.CacheStats()
			zap.L().Info("shutting down server",
				zap.Int("cached_quarters", stats.Quarters),
				zap.Int64("cache_hits", stats.Hits),
				zap.Int64("cache_misses", stats.Misses),
			)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", cfg.Server.Port),
			zap.Int("regions", len(env.Regions)),
			zap.Int("stations", len(env.Stations)),
			zap.Int("quarters", env.Catalog.Len()),
		)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func sweepSessions(ctx context.Context, st session.Store) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := st.DeleteExpired(ctx)
			if err != nil {
				zap.L().Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Debug("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
