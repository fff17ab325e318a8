package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/dishform/internal/config"
	"github.com/alexanderramin/dishform/internal/dish"
	"github.com/alexanderramin/dishform/internal/form"
	"github.com/alexanderramin/dishform/internal/logging"
	"github.com/alexanderramin/dishform/internal/storage"
)

// fullScreen marks commands whose output owns the terminal. Console
// logging is muted while they run.
const fullScreen = "fullscreen"

// App holds what the commands share. Settings and Logger are filled in
// before any command runs.
type App struct {
	Settings *config.Settings
	Logger   *slog.Logger
	Defaults dish.Defaults

	// NewClient builds the storage client for a submission. Tests swap it.
	NewClient func(cfg storage.Config, observer storage.Observer) storage.Client

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	// LogConsole receives console log records. Defaults to stderr.
	LogConsole io.Writer

	closeLog func() error
}

// NewApp returns an App with the stock defaults table and HTTP client.
func NewApp() *App {
	return &App{
		Defaults:      dish.DefaultTable(),
		NewClient:     storage.NewHTTPClient,
		IsInteractive: func() bool { return false },
		LogConsole:    os.Stderr,
	}
}

// NewRootCmd creates the top-level "dishform" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "dishform",
		Short:         "Fill in and submit dish records",
		Long:          "Fill in and submit dish records. Without a subcommand an interactive\nform opens when stdin is a terminal.",
		Annotations:   map[string]string{fullScreen: "true"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runDishForm(cmd.Context(), app)
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	flags := root.PersistentFlags()
	flags.String("endpoint", "", "storage endpoint dishes are posted to")
	flags.Duration("timeout", 0, "request timeout")
	flags.Duration("reset-delay", 0, "delay before the form is cleared after a submit")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	flags.String("log-file", "", "also write logs to this file")
	flags.Bool("log-calls", false, "log every storage request")

	root.AddCommand(
		newNewCmd(app),
		newSubmitCmd(app),
		newTypesCmd(app),
		newSandboxCmd(app),
	)

	return root
}

func (a *App) load(cmd *cobra.Command) error {
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.Settings = settings

	quiet := cmd.Annotations[fullScreen] == "true" && a.IsInteractive != nil && a.IsInteractive()
	logger, closeLog, err := logging.New(settings.Log, logging.Options{Console: a.LogConsole, Quiet: quiet})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.Logger = logger
	a.closeLog = closeLog
	return nil
}

func (a *App) close() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

// newController wires a form controller to the configured endpoint.
func (a *App) newController(observer form.Observer) *form.Controller {
	var calls storage.Observer = storage.NoopObserver{}
	if a.Settings.Log.Calls {
		calls = storage.NewLogObserver(a.Logger)
	}
	client := a.NewClient(storage.Config{
		Endpoint: a.Settings.Submit.Endpoint,
		Timeout:  a.Settings.Submit.Timeout,
	}, calls)

	return form.New(client, form.Config{
		Defaults:   &a.Defaults,
		ResetDelay: a.Settings.Submit.ResetDelay,
		Observer:   observer,
		Logger:     a.Logger,
	})
}
