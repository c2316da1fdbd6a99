// Package config loads promptcmd configuration from files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. PROMPTCMD_OUTPUT=json.
	EnvPrefix = "PROMPTCMD"
	// FileName is the config file base name searched for without --config.
	FileName = "promptcmd"
)

// Config holds application settings and inline template definitions.
type Config struct {
	LogLevel      string   `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat     string   `mapstructure:"log_format" validate:"oneof=console json"`
	Output        string   `mapstructure:"output" validate:"oneof=text json"`
	Theme         string   `mapstructure:"theme" validate:"oneof=default high-contrast"`
	ProjectDir    string   `mapstructure:"project_dir"`
	TemplateDirs  []string `mapstructure:"template_dirs" validate:"dive,required"`
	AllowWarnings bool     `mapstructure:"allow_warnings"`

	// Templates stay loosely typed; entries are checked by the templates package.
	Templates []any `mapstructure:"templates"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		Output:    "text",
		Theme:     "default",
	}
}

// SearchPaths returns the directories searched for promptcmd.yaml.
func SearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".config", "promptcmd"))
	}
	return paths
}

// Load reads configuration from path, or from the search paths when path is
// empty. A missing file is only an error when path was given explicitly.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range SearchPaths() {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("project_dir", "")
	v.SetDefault("allow_warnings", false)
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.ProjectDir = strings.TrimSpace(c.ProjectDir)
}

// Validate checks the settings. Inline templates are not inspected here.
func (c *Config) Validate() error {
	err := newValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatFieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

// newValidator reports fields by their config key instead of the Go name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s must not be empty", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}
