// internal/cli/root.go
package signalcmp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/mwiater/signalcmp/internal/analysis"
	"github.com/mwiater/signalcmp/internal/appconfig"
	"github.com/mwiater/signalcmp/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	loadedFile    string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:          "signalcmp",
	Short:        "Compare an ML traffic signal controller against a static one",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		// 2) If user did NOT set a flag, copy the config value into the flag so
		//    both pflags and viper reflect the same, final value.
		for _, name := range []string{"debug", "jsonMode"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}

		// 3) Materialize the fully merged configuration (flags > config > defaults).
		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg = cfg.WithDefaults()
		cfg.ConfigPath = loadedFile
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		logging.SetDebug(cfg.Debug)
		logging.LogDebug("config loaded from %q", loadedFile)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (YAML or JSON)")

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("jsonMode", false, "print the analysis as JSON instead of text")
	rootCmd.PersistentFlags().String("inputDir", "", "directory holding the controller CSV logs")
	rootCmd.PersistentFlags().String("outputDir", "", "directory receiving the summary CSV, charts and dashboard")

	// Bind flags to Viper keys (flags override config)
	for _, name := range []string{"debug", "jsonMode", "inputDir", "outputDir"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config, checks it against the configuration
// schema and sets defaults for everything it omits.
func ensureConfigLoaded() error {
	defaults := appconfig.Defaults()
	viper.SetDefault("inputDir", defaults.InputDir)
	viper.SetDefault("outputDir", defaults.OutputDir)
	viper.SetDefault("charts", defaults.Charts)
	viper.SetDefault("dashboard", defaults.Dashboard)
	viper.SetDefault("debug", false)
	viper.SetDefault("jsonMode", false)

	loadedFile = ""
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			// No file: fine, we'll use defaults/flags
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	loadedFile = viper.ConfigFileUsed()
	if _, err := appconfig.Load(loadedFile); err != nil {
		return err
	}
	return nil
}

// getConfig returns the merged configuration, or the defaults before the
// root command has run.
func getConfig() appconfig.Config {
	if currentConfig == nil {
		return appconfig.Defaults()
	}
	return *currentConfig
}

// runAnalysis runs the comparison pipeline for cfg.
func runAnalysis(cfg appconfig.Config) (*analysis.Analysis, error) {
	a, err := analysis.Run(cfg.AnalysisOptions())
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return a, nil
}

// printJSON writes v as indented JSON.
func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
