package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pixelstream/internal/config"
	"pixelstream/internal/engine"
	"pixelstream/internal/logger"
	"pixelstream/internal/shutdown"
)

// application carries what every subcommand needs once flags are parsed.
type application struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   logger.Logger
	shutdown *shutdown.Manager
}

func newRootCommand() *cobra.Command {
	app := &application{}

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Stream images through a 3x3 windowed filter engine",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.shutdown != nil {
				app.shutdown.Shutdown()
			}
		},
	}

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "YAML or TOML run configuration")
	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "debug, info, warning or error")

	root.AddCommand(
		newFilterCommand(app),
		newPatternCommand(app),
		newTestbenchCommand(app),
		newModesCommand(),
	)
	return root
}

func (a *application) init(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	a.logger = logger.NewConsoleLogger(cfg.Level())
	a.shutdown = shutdown.NewManager(a.logger)
	a.shutdown.Listen()

	a.logger.Debug("CLI", "configuration loaded", map[string]interface{}{
		"config":     a.configPath,
		"filter":     cfg.Filter.String(),
		"threshold":  cfg.Threshold,
		"max_width":  cfg.MaxWidth,
		"max_height": cfg.MaxHeight,
		"decoder":    cfg.Decoder,
	})
	return nil
}

func (a *application) newEngine() (*engine.Engine, error) {
	e, err := engine.New(engine.WithLogger(a.logger), engine.WithLimits(a.cfg.Limits()))
	if err != nil {
		return nil, fmt.Errorf("engine setup failed: %w", err)
	}
	return e, nil
}

// validateSize rejects pattern dimensions that cannot form an image.
func validateSize(width, height int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("--width and --height must be at least 1, got %dx%d", width, height)
	}
	return nil
}
