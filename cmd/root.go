package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/formdom/internal/config"
	"github.com/zjrosen/formdom/internal/log"
)

const localConfigPath = ".formdom/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "formdom",
	Short: "Inspect and validate HTML forms",
	Long: `formdom loads HTML files into an emulated DOM and reports each form's
control registry: the controls in document order, the names they are
registered under, and whether the form passes constraint validation.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.formdom/config.yaml, then ~/.config/formdom/config.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "",
		"output format: table, json or markdown")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write debug logs to the configured log file")

	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("log_file", "formdom.log")
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.markdown_style", defaults.Output.MarkdownStyle)
	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("cache.cleanup_interval", defaults.Cache.CleanupInterval)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	viper.SetEnvPrefix("formdom")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .formdom/config.yaml (current directory)
		// 2. ~/.config/formdom/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "formdom"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Only a missing default config gets a template; an explicit --config
		// that is missing falls back to defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && cfgFile == "" {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setup validates the configuration and starts logging before any
// subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.Validate(cfg); err != nil {
		return usageError(fmt.Errorf("invalid configuration: %w", err))
	}

	if cfg.Debug || os.Getenv("FORMDOM_DEBUG") != "" {
		cleanup, err := log.Init(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("initializing log: %w", err)
		}
		cobra.OnFinalize(cleanup)
		log.Info(log.CatConfig, "starting", "command", cmd.CommandPath(), "config", viper.ConfigFileUsed())
	}
	return nil
}

// configFilePath returns the file config edits are written to.
func configFilePath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return localConfigPath
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
