// Package config loads plsqlreview settings.
//
// Values are layered with koanf, lowest precedence first: built-in defaults,
// plsqlreview.yaml (found in the working directory or a parent), PLSQLREVIEW_
// environment variables, and explicitly set command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	CommentsFile string      `koanf:"comments_file" yaml:"comments_file"`
	FallbackPath string      `koanf:"fallback_path" yaml:"fallback_path"`
	StatePath    string      `koanf:"state_path" yaml:"state_path"`
	Output       string      `koanf:"output" yaml:"output"`
	Verbose      bool        `koanf:"verbose" yaml:"verbose"`
	TokenEnv     string      `koanf:"token_env" yaml:"token_env"`
	APIBaseURL   string      `koanf:"api_base_url" yaml:"api_base_url"`
	Lint         *LintConfig `koanf:"lint" yaml:"lint,omitempty"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// LintConfig configures the review rules.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled" yaml:"disabled,omitempty"`
	Severity map[string]string         `koanf:"severity" yaml:"severity,omitempty"`
	Rules    map[string]map[string]any `koanf:"rules" yaml:"rules,omitempty"`
}

// Config file names, in lookup order.
var ConfigFileNames = []string{"plsqlreview.yaml", "plsqlreview.yml"}

// Default configuration values.
const (
	DefaultCommentsFile = "comments.json"
	DefaultFallbackPath = "workspace/Test.plsql"
	DefaultStateFile    = ".plsqlreview/history.db"
	DefaultOutput       = "auto" // TTY=text, otherwise markdown
	DefaultTokenEnv     = "GH_TOKEN"
	DefaultAPIBaseURL   = "https://api.github.com"
	EnvPrefix           = "PLSQLREVIEW_"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CommentsFile: DefaultCommentsFile,
		FallbackPath: DefaultFallbackPath,
		StatePath:    DefaultStateFile,
		Output:       DefaultOutput,
		TokenEnv:     DefaultTokenEnv,
		APIBaseURL:   DefaultAPIBaseURL,
	}
}
