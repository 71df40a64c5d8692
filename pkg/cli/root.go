// Package cli implements the taskmate commands using cobra.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/harrisonrobin/taskmate/pkg/config"
	"github.com/harrisonrobin/taskmate/pkg/google"
	"github.com/harrisonrobin/taskmate/pkg/logging"
	"github.com/harrisonrobin/taskmate/pkg/rowstore"
	"github.com/harrisonrobin/taskmate/pkg/sqlite"
	"github.com/harrisonrobin/taskmate/pkg/tasklist"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "taskmate",
	Short: "Personal task list backed by a spreadsheet",
	Long: `taskmate keeps a personal task list in a Google Sheet (or a local
SQLite file) and exposes it through the terminal, a small web form and
MCP tools a chat agent can call.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/taskmate/config.yaml)")
	rootCmd.PersistentFlags().String("backend", "", "Task store backend: sheets, sqlite or memory (overrides config)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}

// app bundles what a command needs once config and store are resolved.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	service *tasklist.Service
	close   func() error
}

func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, err
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.Backend = backend
		if err := cfg.Validate(); err != nil {
			return nil, path, err
		}
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, path, nil
}

// setup loads configuration, initializes logging and connects the store.
func setup(cmd *cobra.Command) (*app, error) {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.Log.Path,
	}); err != nil {
		return nil, err
	}
	log := logging.Component("cli")

	store, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("backend", cfg.Backend).Msg("store opened")

	svc := tasklist.NewService(store, tasklist.WithCacheTTL(cfg.Cache.TTL))
	return &app{cfg: cfg, log: log, service: svc, close: closeStore}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (rowstore.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendMemory:
		return rowstore.NewMemory(), noop, nil
	default:
		c, err := google.Connect(ctx, cfg.Sheets.Credentials, cfg.Sheets.URL, cfg.Sheets.Worksheet)
		if err != nil {
			return nil, nil, err
		}
		return c, noop, nil
	}
}

// withApp wraps a command body with setup and teardown.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()
		return run(cmd, args, a)
	}
}

// SetOutput redirects command output, for tests.
func SetOutput(w io.Writer) {
	rootCmd.SetOut(w)
	rootCmd.SetErr(w)
}
