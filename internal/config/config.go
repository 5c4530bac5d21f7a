// Package config provides configuration management for stylegen using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// The configuration covers where builder documents are read from, where the
// compiled CSS is written, how strictly section shapes are enforced, and the
// preview server, watcher and logger settings. Environment variables use the
// STYLEGEN_ prefix with "." replaced by "_", for example STYLEGEN_OUTPUT_DIR.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Sources    SourcesConfig    `mapstructure:"sources" yaml:"sources" json:"sources"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output" json:"output"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation" json:"validation"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server" json:"server"`
	Watch      WatchConfig      `mapstructure:"watch" yaml:"watch" json:"watch"`
	Log        LogConfig        `mapstructure:"log" yaml:"log" json:"log"`
}

type SourcesConfig struct {
	// Dirs are project directories holding additional builder documents.
	Dirs []string `mapstructure:"dirs" yaml:"dirs" json:"dirs"`
	// Builtin controls whether the embedded Layera builders are loaded.
	Builtin bool `mapstructure:"builtin" yaml:"builtin" json:"builtin"`
}

type OutputConfig struct {
	Dir           string   `mapstructure:"dir" yaml:"dir" json:"dir"`
	Aggregate     bool     `mapstructure:"aggregate" yaml:"aggregate" json:"aggregate"`
	AggregateFile string   `mapstructure:"aggregate_file" yaml:"aggregate_file" json:"aggregate_file"`
	Builders      []string `mapstructure:"builders" yaml:"builders" json:"builders"`
}

type ValidationConfig struct {
	// Strict turns shape violations into build failures instead of warnings.
	Strict bool `mapstructure:"strict" yaml:"strict" json:"strict"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port int    `mapstructure:"port" yaml:"port" json:"port"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" json:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
}

// Defaults registered on every Viper instance passed to SetDefaults.
const (
	DefaultOutputDir     = "dist/css"
	DefaultAggregateFile = "all.css"
	DefaultHost          = "localhost"
	DefaultPort          = 8090
	DefaultDebounce      = 300 * time.Millisecond
)

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("sources.dirs", []string{})
	v.SetDefault("sources.builtin", true)
	v.SetDefault("output.dir", DefaultOutputDir)
	v.SetDefault("output.aggregate", true)
	v.SetDefault("output.aggregate_file", DefaultAggregateFile)
	v.SetDefault("output.builders", []string{})
	v.SetDefault("validation.strict", false)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("watch.debounce", DefaultDebounce)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration from the global Viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Slices set from env or flags arrive as strings
	if v.IsSet("sources.dirs") && len(config.Sources.Dirs) == 0 {
		config.Sources.Dirs = v.GetStringSlice("sources.dirs")
	}
	if v.IsSet("output.builders") && len(config.Output.Builders) == 0 {
		config.Output.Builders = v.GetStringSlice("output.builders")
	}

	if config.Output.Dir == "" {
		config.Output.Dir = DefaultOutputDir
	}
	if config.Output.AggregateFile == "" {
		config.Output.AggregateFile = DefaultAggregateFile
	}
	if config.Watch.Debounce <= 0 {
		config.Watch.Debounce = DefaultDebounce
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	for _, dir := range config.Sources.Dirs {
		if err := validatePath(dir); err != nil {
			return fmt.Errorf("sources config: invalid dir '%s': %w", dir, err)
		}
	}

	if err := validatePath(config.Output.Dir); err != nil {
		return fmt.Errorf("output config: invalid dir '%s': %w", config.Output.Dir, err)
	}

	if strings.ContainsAny(config.Output.AggregateFile, `/\`) || filepath.Ext(config.Output.AggregateFile) != ".css" {
		return fmt.Errorf("output config: aggregate_file must be a bare .css file name, got '%s'", config.Output.AggregateFile)
	}

	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	switch config.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log config: unsupported format '%s' (supported: text, json)", config.Log.Format)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "STYLEGEN"

// EnvKeyReplacer maps nested keys to environment variable names.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Address returns host:port for the preview server.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
