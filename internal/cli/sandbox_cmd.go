package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/dishform/internal/db"
	"github.com/alexanderramin/dishform/internal/repository"
	"github.com/alexanderramin/dishform/internal/sandbox"
)

func newSandboxCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run a local dish storage service",
		Long: `Run a local stand-in for the dish storage service. Point the form at it
with --endpoint http://<addr>/dishes. Use --fail-status or --plain to
exercise the form's failure paths.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Settings.Sandbox
			dbPath, err := sandboxDBPath(cfg.DB)
			if err != nil {
				return err
			}

			database, err := db.OpenDB(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()

			srv, err := sandbox.NewServer(
				repository.NewSQLiteDishRepo(database),
				sandbox.Options{FailStatus: cfg.FailStatus, Plain: cfg.Plain},
				app.Logger,
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Sandbox storing dishes in %s\nPOST http://%s/dishes\n", dbPath, cfg.Addr)
			return srv.Run(ctx, cfg.Addr)
		},
	}

	cmd.Flags().String("addr", "", "listen address")
	cmd.Flags().String("db", "", "SQLite file, or :memory: (default ~/.dishform/sandbox.db)")
	cmd.Flags().Int("fail-status", 0, "answer every POST with this status")
	cmd.Flags().Bool("plain", false, "answer POSTs with a non-JSON body")

	return cmd
}

func sandboxDBPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".dishform", "sandbox.db"), nil
}
