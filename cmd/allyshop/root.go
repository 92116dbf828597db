package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"allyshop/internal/config"
)

var (
	cfgFile    string
	cfg        *config.Config
	configUsed string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "allyshop",
	Short: "AllyShop - an accessibility-first shopping demo",
	Long: `AllyShop is a demo storefront built around assistive-technology
feedback: every user action produces screen-reader announcements, visible
notifications and deterministic focus movement. The serve command exposes
the storefront over a JSON API so the behavior can be driven and inspected.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Credentials live in .env during local development; missing file is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	defaults := config.DefaultConfig()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in current directory
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Environment variables
	viper.SetEnvPrefix("ALLYSHOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper (lowest precedence), including the demo catalog
	viper.SetDefault("server.port", defaults.Server.Port)
	viper.SetDefault("server.host", defaults.Server.Host)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.format", defaults.Logging.Format)
	viper.SetDefault("products", defaults.Products)
	viper.SetDefault("search.suggestions", defaults.Search.Suggestions)
	viper.SetDefault("timing.search_delay_ms", defaults.Timing.SearchDelayMs)
	viper.SetDefault("timing.auth_delay_ms", defaults.Timing.AuthDelayMs)
	viper.SetDefault("timing.redirect_focus_delay_ms", defaults.Timing.RedirectFocusDelayMs)
	viper.SetDefault("timing.validation_focus_delay_ms", defaults.Timing.ValidationFocusDelayMs)
	viper.SetDefault("timing.greeting_delay_ms", defaults.Timing.GreetingDelayMs)
	viper.SetDefault("timing.notification_duration_ms", defaults.Timing.NotificationDurationMs)
	viper.SetDefault("timing.search_input_focus_delay_ms", defaults.Timing.SearchInputFocusDelayMs)
	viper.SetDefault("security.ip_allowlist.cidrs", defaults.Security.IPAllowlist.CIDRs)

	// Read config file if it exists
	configUsed = "defaults-only"
	if err := viper.ReadInConfig(); err == nil {
		configUsed = viper.ConfigFileUsed()
	}

	cfg = &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: config unmarshal failed, using defaults: %v\n", err)
		cfg = defaults
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the current configuration
func GetConfig() *config.Config {
	return cfg
}

// GetConfigSource returns where the config was loaded from
func GetConfigSource() string {
	return configUsed
}

// SetupLogger configures the global slog logger based on config
func SetupLogger() {
	var handler slog.Handler

	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if strings.ToLower(cfg.Logging.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
