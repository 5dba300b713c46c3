package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/plsqlreview/internal/cli/config"
	"github.com/leapstack-labs/plsqlreview/pkg/lint/review"
)

const configHeader = `# plsqlreview configuration
# Environment variables prefixed with PLSQLREVIEW_ and command-line flags
# override these values.

`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default plsqlreview.yaml",
		Long: `Write a plsqlreview.yaml configuration file with the default settings
and the default options of the configurable review rules.`,
		Example: `  # Initialize in current directory
  plsqlreview init

  # Initialize in another directory
  plsqlreview init services/erp

  # Force overwrite existing config
  plsqlreview init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cc, err := NewCommandContext(cmd, "")
	if err != nil {
		return err
	}
	r := cc.Renderer

	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileNames[0])
	}

	data, err := defaultConfigYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("plsqlreview configured!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  plsqlreview rules     List the review rules")
	r.Println("  plsqlreview review    Review the fallback file")
	return nil
}

// defaultConfigYAML renders the default configuration file.
func defaultConfigYAML() ([]byte, error) {
	cfg := config.Default()
	cfg.Lint = &config.LintConfig{
		Rules: map[string]map[string]any{
			review.RuleParameterOrder: {
				review.OptExemptRoutines:  review.DefaultExemptRoutines,
				review.OptExemptParameter: review.DefaultExemptParameter,
			},
			review.RuleParameterSuffix: {
				review.OptSuffix: review.DefaultSuffix,
			},
			review.RuleDeclarationOrder: {
				review.OptRowtypeSuffix: review.DefaultRowtypeSuffix,
			},
		},
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
