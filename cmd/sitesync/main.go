// cmd/sitesync/main.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sitesync/internal/config"
)

type appConfig struct {
	configPath string
	verbose    bool

	cfg config.Config
	log *zap.Logger
}

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	app := &appConfig{}
	if err := newRootCmd(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd(app *appConfig) *cobra.Command {
	root := &cobra.Command{
		Use:   "sitesync",
		Short: "Synchronize a product's control tree into a static marketing site",
		Long: `sitesync reads a project's control tree (descriptor, control document and
override folders), resolves its content and writes the generated pages,
shared site configuration, copied screenshots and registry entry into a
website tree.

Running sitesync without a command performs a sync.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.log != nil {
				_ = app.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), app, cmd.OutOrStdout())
		},
	}
	root.PersistentFlags().StringVarP(&app.configPath, "config", "c", "", "configuration file (default "+config.DefaultFile+")")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSyncCmd(app),
		newInspectCmd(app),
		newCheckCmd(app),
		newServeCmd(app),
		newNewCmd(app),
		newRegistryCmd(app),
	)
	return root
}

// setup loads configuration and builds the logger. A broken config file is
// logged and the remaining layers still apply.
func (app *appConfig) setup() error {
	cfg, warn := config.Load(app.configPath)
	app.cfg = cfg

	log, err := newLogger(cfg.Log, app.verbose)
	if err != nil {
		return fmt.Errorf("could not create logger: %w", err)
	}
	app.log = log
	if warn != nil {
		log.Warn("configuration file ignored", zap.Error(warn))
	}
	return nil
}

func newLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if lc.Level != "" {
		if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewDevelopmentConfig()
	if lc.Format == "json" {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = !verbose
	return zc.Build()
}
