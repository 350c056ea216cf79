package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/holidaze/internal/config"
	"github.com/example/holidaze/internal/obs"
	"github.com/example/holidaze/internal/session"
	"github.com/example/holidaze/internal/web"
)

func newServerCmd() *cobra.Command {
	var sessionIdle time.Duration

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			log := obs.NewLogger(cfg.Env)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			sessions, err := session.OpenPG(ctx, cfg.DatabaseURL, cfg.TokenEncKey)
			if err != nil {
				return err
			}
			defer sessions.Close()

			if err := sessions.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			// Idle sessions are pruned in the background for as long as
			// the server runs.
			go func() {
				t := time.NewTicker(time.Hour)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-t.C:
						n, err := sessions.PruneIdle(ctx, sessionIdle)
						if err != nil {
							log.Warn("prune sessions", "err", err)
						} else if n > 0 {
							log.Info("pruned idle sessions", "count", n)
						}
					}
				}
			}()

			srv := &web.Server{
				APIURL:   cfg.APIBaseURL,
				APIKey:   cfg.APIKey,
				Sessions: sessions,
				Cookies:  web.NewCookies(cfg.SessionHashKey, cfg.SessionBlockKey),
				Log:      log,
			}
			return web.Start(ctx, cfg.ListenAddr, srv.Routes())
		},
	}

	cmd.Flags().DurationVar(&sessionIdle, "session-idle", 14*24*time.Hour, "drop sessions idle for longer than this")
	return cmd
}
