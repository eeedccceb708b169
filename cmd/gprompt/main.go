package main

import (
	"context"
	"io"
	"os"

	"github.com/atinylittleshell/gprompt/internal/ambient"
	"github.com/atinylittleshell/gprompt/internal/config"
	"github.com/atinylittleshell/gprompt/internal/core"
	"github.com/atinylittleshell/gprompt/internal/prompt"
	"github.com/atinylittleshell/gprompt/internal/render"
	"github.com/atinylittleshell/gprompt/internal/repoctx"
	"github.com/atinylittleshell/gprompt/internal/styles"
	"github.com/atinylittleshell/gprompt/internal/toolchain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var BUILD_VERSION = "dev"

const longHelp = `gprompt prints a shell prompt.

Without arguments it prints the primary prompt (PS1): the time, battery,
working directory, repository context and system load, followed by the
prompt glyph on its own line. With any argument it prints the
continuation prompt (PS2).

  PS1='$(gprompt)'
  PS2='$(gprompt 2)'

Settings are read from GPROMPT_* environment variables, RUSTC, JAVA_HOME
and NO_COLOR.`

func main() {
	if err := newRootCommand(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "gprompt [continuation]",
		Short: "Render the shell prompt",
		Long:  longHelp,
		// Every argument, flag-shaped or not, selects the continuation prompt.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), out, config.Load(), len(args) > 0)
		},
	}
}

func run(ctx context.Context, out io.Writer, cfg *config.Config, continuation bool) error {
	logger, err := initializeLogger(cfg)
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() // Flush any buffered log entries

	logger.Debug("rendering prompt",
		zap.String("version", BUILD_VERSION),
		zap.Bool("continuation", continuation))

	aggregator := newAggregator(out, cfg, logger)
	if continuation {
		err = aggregator.PS2(out)
	} else {
		err = aggregator.PS1(ctx, out)
	}
	if err != nil {
		logger.Error("unhandled error", zap.Error(err))
		return err
	}
	return nil
}

func initializeLogger(cfg *config.Config) (*zap.Logger, error) {
	if !cfg.FileLoggingEnabled() {
		return zap.NewNop(), nil
	}

	logLevel, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if cfg.Debug {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logFile := cfg.LogFile
	if logFile == "" {
		if err := core.EnsureDataDir(); err != nil {
			return nil, err
		}
		logFile = core.LogFile()
	}

	// Logs only go to file since stdout is the prompt itself
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{logFile}
	loggerConfig.ErrorOutputPaths = []string{logFile}

	return loggerConfig.Build()
}

// newAggregator wires the facets in display order.
func newAggregator(out io.Writer, cfg *config.Config, logger *zap.Logger) *prompt.Aggregator {
	renderer := render.NewRenderer(out, styles.Profile(cfg.Color, cfg.NoColor))

	detector := toolchain.NewDetector(toolchain.Options{
		Rustc:    cfg.Rustc,
		JavaHome: cfg.JavaHome,
		Timeout:  cfg.ExecTimeout,
		Logger:   logger,
	})

	return prompt.NewAggregator(renderer, logger,
		ambient.NewClock(nil),
		ambient.NewBattery(ambient.DefaultPowerSupplyDir, logger),
		ambient.NewWorkingDirectory(logger),
		repoctx.NewResolver(nil, detector, logger),
		ambient.NewSystemLoad(logger),
	)
}
