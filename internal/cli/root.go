// Package cli implements the promptcmd command line.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/promptcmd/internal/config"
	"github.com/opencode-ai/promptcmd/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	logFormat  string
	jsonOutput bool
	noColor    bool
	projectDir string

	appConfig *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./promptcmd.yaml, ~/.config/promptcmd/promptcmd.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "write JSON output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project", "", "project directory searched for .promptcmd/templates (default: working directory)")
}

var rootCmd = &cobra.Command{
	Use:   "promptcmd",
	Short: "Check command templates before they run",
	Long: `promptcmd validates command templates: named shell commands with an
optional single $@ placeholder, a description and optional aliases.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by --version.
func SetVersion(version string) {
	rootCmd.Version = version
}

func initConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.LogLevel = strings.ToLower(logLevel)
	}
	if logFormat != "" {
		cfg.LogFormat = strings.ToLower(logFormat)
	}
	if jsonOutput {
		cfg.Output = "json"
	}
	if projectDir != "" {
		cfg.ProjectDir = projectDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Init(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	appConfig = cfg
	logger := logging.Component("cli")
	logger.Debug().
		Str("config", cfg.Source).
		Str("output", cfg.Output).
		Int("inline_templates", len(cfg.Templates)).
		Msg("configuration loaded")
	return nil
}

// GetConfig returns the loaded configuration, or defaults before loading.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

// IsJSONOutput reports whether commands should write JSON.
func IsJSONOutput() bool {
	return jsonOutput || GetConfig().Output == "json"
}

func resolveProjectDir(cfg *config.Config) string {
	if cfg.ProjectDir != "" {
		return cfg.ProjectDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return ""
}
