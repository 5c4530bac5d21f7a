// Package cmd provides the stylegen command-line interface.
//
// Configuration is read, from highest to lowest priority, from command-line
// flags, STYLEGEN_* environment variables (STYLEGEN_OUTPUT_DIR,
// STYLEGEN_SERVER_PORT, ...), the file named by --config or
// STYLEGEN_CONFIG_FILE, and finally .stylegen.yml in the working directory.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/layera/stylegen/internal/catalog"
	"github.com/layera/stylegen/internal/config"
	stylerr "github.com/layera/stylegen/internal/errors"
	"github.com/layera/stylegen/internal/logging"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg    *config.Config
	logger logging.Logger
}

// Execute runs the stylegen command tree against os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// NewRootCommand builds a fresh command tree with its own configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "stylegen",
		Short: "Compile Layera style objects into CSS",
		Long: `stylegen compiles Layera's design-token style objects into plain CSS.

Builders are YAML documents made of titled sections of selectors and
declarations. The Layera builders ship embedded in the binary; project
directories listed under sources.dirs add builders or replace built-in ones
of the same name.

Quick Start:
  stylegen list                     List builders
  stylegen build                    Write dist/css/<builder>.css and all.css
  stylegen validate                 Check every section's shape
  stylegen serve                    Live style guide on http://localhost:8090`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.SetGlobalNormalizationFunc(normalizeFlagName)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .stylegen.yml, can also use STYLEGEN_CONFIG_FILE env var)")
	flags.StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newBuildCommand(a),
		newValidateCommand(a),
		newListCommand(a),
		newCategoryCommand(a),
		newGroupCommand(a),
		newLintCommand(a),
		newWatchCommand(a),
		newServeCommand(a),
		newDoctorCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)

	return root
}

// init resolves the configuration file, environment and flags, then builds
// the logger.
func (a *app) init(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else if envFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envFile != "" {
		a.v.SetConfigFile(envFile)
	} else {
		a.v.AddConfigPath(".")
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".stylegen")
	}

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(config.EnvKeyReplacer())
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return stylerr.WrapConfig(err, "cannot read config file")
		}
	}

	cfg, err := config.LoadFrom(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug(cmd.Context(), "Using config file", "path", used)
	}
	return nil
}

// loadCatalog loads the built-in and project builders.
func (a *app) loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(catalog.Options{
		Builtin: a.cfg.Sources.Builtin,
		Dirs:    a.cfg.Sources.Dirs,
	})
}

// builder looks up one builder by name.
func (a *app) builder(name string) (*catalog.Builder, error) {
	c, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	bs, err := c.Select(name)
	if err != nil {
		return nil, err
	}
	return bs[0], nil
}

func checkFormat(format string, supported ...string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported format: %s (supported: %v)", format, supported)
}

// normalizeFlagName accepts --dry_run as well as --dry-run.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
