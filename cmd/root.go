// Package cmd wires the holidaze CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/holidaze/internal/config"
	"github.com/example/holidaze/internal/holidaze"
	"github.com/example/holidaze/internal/obs"
	"github.com/example/holidaze/internal/session"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "holidaze",
		Short: "Browse venues and book stays through the Holidaze API",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(newServerCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newWhoamiCmd())
	root.AddCommand(newVenuesCmd())
	root.AddCommand(newManageCmd())
	root.AddCommand(newBookCmd())
	root.AddCommand(newBookingsCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the shared command context: config, logger, and an API client.
// For public commands the client carries no token.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	api    *holidaze.Client
	tokens *session.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := obs.NewLogger(cfg.Env)
	return &app{
		cfg: cfg,
		log: log,
		api: holidaze.New(cfg.APIBaseURL, cfg.APIKey, holidaze.NoToken{}, log),
	}, nil
}

// newAuthedApp opens the encrypted session store and builds a client that
// reads its token from there.
func newAuthedApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := obs.NewLogger(cfg.Env)

	fileStore, err := session.NewFileStore(cfg.StorePath, cfg.StorePassphrase)
	if err != nil {
		return nil, fmt.Errorf("set HOLIDAZE_STORE_PASSPHRASE to unlock the session store: %w", err)
	}
	store, err := session.NewStore(fileStore)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		log:    log,
		api:    holidaze.New(cfg.APIBaseURL, cfg.APIKey, store, log),
		tokens: store,
	}, nil
}
