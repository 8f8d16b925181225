// Package cmd implements the sw6 CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rotekhq/shopware6-client/internal/config"
	"github.com/rotekhq/shopware6-client/pkg/logger"
	"github.com/rotekhq/shopware6-client/pkg/shopware"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "sw6",
		Short: "CLI client for the Shopware 6 admin API",
		Long: "sw6 is a command-line client for the Shopware 6 admin API.\n" +
			"It lets you inspect a shop, search entities with the criteria\n" +
			"query language and page through large result sets.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.sw6.yaml)")
	rootCmd.PersistentFlags().
		String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		String("log-format", "text", "log format (text, json)")

	cobra.CheckErr(viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format")))

	viper.SetEnvPrefix("SW6")
	viper.AutomaticEnv()

	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(versionCommand())
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		path = home + "/.sw6.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAdminClient() (*shopware.AdminClient, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(viper.GetString("log_level"), viper.GetString("log_format"))

	opts := []shopware.AdminOption{shopware.WithLogger(log)}
	if cfg.RateLimit.PerSecond > 0 {
		opts = append(opts, shopware.WithRateLimiter(shopware.NewRateLimiter(
			cfg.RateLimit.PerSecond,
			cfg.RateLimit.Burst,
			cfg.RateLimit.DailyLimit,
		)))
	}

	return shopware.NewAdminClient(cfg.Shop.ClientConfig(), opts...), nil
}
