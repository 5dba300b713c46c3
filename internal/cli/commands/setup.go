// Package commands implements the plsqlreview subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/plsqlreview/internal/cli/config"
	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer for cmd.
// A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if format == "" {
		format = cfg.Output
	}
	mode, err := output.ParseMode(format)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// getConfig returns the loaded configuration, or defaults with environment
// overrides when a command runs without the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cfg := config.Default()
	cfg.CommentsFile = getEnvOrDefault(config.EnvPrefix+"COMMENTS_FILE", cfg.CommentsFile)
	cfg.FallbackPath = getEnvOrDefault(config.EnvPrefix+"FALLBACK_PATH", cfg.FallbackPath)
	cfg.StatePath = getEnvOrDefault(config.EnvPrefix+"STATE_PATH", cfg.StatePath)
	cfg.Output = getEnvOrDefault(config.EnvPrefix+"OUTPUT", cfg.Output)
	cfg.TokenEnv = getEnvOrDefault(config.EnvPrefix+"TOKEN_ENV", cfg.TokenEnv)
	cfg.APIBaseURL = getEnvOrDefault(config.EnvPrefix+"API_BASE_URL", cfg.APIBaseURL)
	cfg.Verbose = os.Getenv(config.EnvPrefix+"VERBOSE") == "true"
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
