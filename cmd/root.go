// Package cmd provides the command-line interface for uistudio with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports configuration through several sources with clear precedence:
//	1. Command-line flags (--config, --port, --log-level, etc.) - highest priority
//	2. UISTUDIO_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (UISTUDIO_SERVER_PORT, etc.)
//	4. Configuration files (.uistudio.yml) - lowest priority
//
// Environment Variables:
//
//	UISTUDIO_CONFIG_FILE: Path to custom configuration file
//	UISTUDIO_SERVER_PORT: Override server port
//	UISTUDIO_STUDIO_DEFAULT_LANGUAGE: Override the export language
//	And every other key following the UISTUDIO_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/uistudio/internal/catalog"
	"github.com/conneroisu/uistudio/internal/config"
	"github.com/conneroisu/uistudio/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "uistudio",
	Short: "An authoring studio for MCP-UI resources",
	Long: `uistudio is an authoring studio for MCP-UI resources: interactive UI
payloads a tool server attaches to its results.

Key Features:
  • Template catalog of starting points
  • Visual editing with undo and redo
  • Editable text kept in sync with the model
  • Sandboxed live preview with a message console
  • Handler export for TypeScript, Python and Ruby

Quick Start:
  uistudio serve                  Start the studio server
  uistudio templates              List the template catalog
  uistudio export product-cards   Print a TypeScript handler for a template
  uistudio validate card.ts       Check an editable-text file
  uistudio watch card.ts          Re-export a file on every save

Command Aliases:
  templates (ls)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .uistudio.yml, can also use UISTUDIO_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	AddFlagValidation(rootCmd.PersistentFlags(), "log-level", func(level string) error {
		_, err := logging.ParseLevel(level)
		return err
	})
}

// initConfig points viper at the configuration file.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. UISTUDIO_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .uistudio.yml in current directory
//
// Defaults and UISTUDIO_ environment overrides are registered on the global
// instance so that config.Load sees them for every key.
func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("UISTUDIO_CONFIG_FILE"); envConfigFile != "" {
		v.SetConfigFile(envConfigFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".uistudio")
	}

	config.SetDefaults(v)
	config.ConfigureEnv(v)

	// A missing file is not an error; defaults apply.
	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}

// loadConfig reads the merged configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the structured logger described by cfg.Log.
func newLogger(cfg *config.Config, w io.Writer) logging.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Log.Format,
		Output: w,
	})
}

// loadCatalog returns the builtin templates plus those of cfg.Catalog.Path.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat := catalog.Builtin()
	if cfg.Catalog.Path == "" {
		return cat, nil
	}
	if _, err := cat.Load(cfg.Catalog.Path); err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.Catalog.Path, err)
	}
	return cat, nil
}
