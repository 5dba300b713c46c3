package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/plsqlreview/internal/cli/output"
	"github.com/leapstack-labs/plsqlreview/pkg/lint"
)

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// flagKeys maps flag names whose config key differs from the snake_case form.
var flagKeys = map[string]string{
	"state": "state_path",
}

var (
	configFileUsed string
	currentConfig  *Config
)

// configIn returns the config file in dir, or "".
func configIn(dir string) string {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a config file.
func findConfigUpward(startDir string) string {
	dir := startDir
	for range maxUpwardSearchLevels {
		if found := configIn(dir); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves path against baseDir unless it is empty or absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig forgets the loaded config. Used for testing.
func ResetConfig() {
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from defaults, file, environment and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	def := Default()

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"comments_file": def.CommentsFile,
		"fallback_path": def.FallbackPath,
		"state_path":    def.StatePath,
		"output":        def.Output,
		"verbose":       false,
		"token_env":     def.TokenEnv,
		"api_base_url":  def.APIBaseURL,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFileUsed = cfgFile
	if configFileUsed == "" {
		if cwd, err := os.Getwd(); err == nil {
			configFileUsed = findConfigUpward(cwd)
		}
	}
	projectRoot := ""
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	// 3. Environment: PLSQLREVIEW_COMMENTS_FILE -> comments_file
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	flagSet := map[string]bool{}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[f.Name]; ok {
				key = mapped
			}
			flagSet[key] = true
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Paths from the config file are relative to it; flag and env paths to the CWD.
	cfg.ProjectRoot = projectRoot
	if !flagSet["state_path"] && cfg.StatePath != ":memory:" && !isURL(cfg.StatePath) {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}
	if !flagSet["comments_file"] {
		cfg.CommentsFile = resolvePathRelativeTo(cfg.CommentsFile, projectRoot)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = cfg
	return cfg, nil
}

func isURL(s string) bool {
	return strings.Contains(s, "://")
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.Output); err != nil {
		return fmt.Errorf("invalid output setting: %w", err)
	}
	if c.CommentsFile == "" {
		return fmt.Errorf("comments_file is required")
	}
	if c.TokenEnv == "" {
		return fmt.Errorf("token_env is required")
	}
	if c.Lint != nil {
		for id, sev := range c.Lint.Severity {
			if _, ok := lint.ParseSeverity(sev); !ok {
				return fmt.Errorf("invalid severity %q for rule %s", sev, id)
			}
		}
	}
	return nil
}

// LintConfig builds the rule configuration, applying extra disabled rule IDs last.
func (c *Config) LintConfig(disable ...string) *lint.Config {
	cfg := lint.NewConfig()
	if c.Lint != nil {
		for _, id := range c.Lint.Disabled {
			if id = normalizeRuleID(id); id != "" {
				cfg.Disable(id)
			}
		}
		for id, sev := range c.Lint.Severity {
			if s, ok := lint.ParseSeverity(sev); ok {
				cfg.SetSeverity(normalizeRuleID(id), s)
			}
		}
		for id, opts := range c.Lint.Rules {
			cfg.SetRuleOptions(normalizeRuleID(id), opts)
		}
	}
	for _, id := range disable {
		if id = normalizeRuleID(id); id != "" {
			cfg.Disable(id)
		}
	}
	return cfg
}

// normalizeRuleID matches the upper-case IDs rules register under.
func normalizeRuleID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the configuration loaded by the last LoadConfig call.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}
