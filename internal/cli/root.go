package cli

import (
	"fmt"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jiayuchou/prdgen/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "prdgen",
	Short: "prdgen - turn product conversations into requirement documents",
	Long: `prdgen converts free-form product conversations into structured
product requirement documents (PRD).

It scans a transcript for requirement statements, classifies each as a
functional, non-functional, or technical requirement, assigns stable ids
and keyword-derived priorities, and assembles a complete PRD in Markdown
and JSON.

Generation is deterministic: the same conversation and configuration
always produce the same document.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for prdgen.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("prdgen v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.prdgen/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.prdgen")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match PRDGEN_*
	viper.SetEnvPrefix("PRDGEN")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the effective configuration: built-in defaults
// overlaid with whatever the config file and PRDGEN_* environment provide.
// Individual commands apply their flag overrides on top of this.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	// Config struct tags are yaml so the file, the config init template,
	// and this decode all share one set of key names.
	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}

	return cfg, nil
}
