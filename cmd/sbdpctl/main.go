package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/sbdp/internal/config"
	"github.com/danmuck/sbdp/internal/logging"
)

const (
	flagConfig = "config"
	flagAddr   = "addr"
)

var rootCmd = &cobra.Command{
	Use:   "sbdpctl",
	Short: "Send, serve and inspect sbdp messages",
	Long: `sbdpctl speaks the simple binary dictionary protocol: length-prefixed
frames carrying ordered, typed key/value messages.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.ConfigureRuntime()
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "sbdpctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String(flagConfig, "", "path to config.toml (defaults are used when empty)")
	rootCmd.PersistentFlags().String(flagAddr, "", "address to listen on or dial, overrides config")
}

// loadConfig resolves config file, then flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	path, _ := cmd.Flags().GetString(flagConfig)
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if addr, _ := cmd.Flags().GetString(flagAddr); addr != "" {
		cfg.Addr = addr
	}
	if !logging.SetLevel(cfg.LogLevel) {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("sbdpctl: unknown log level, keeping default")
	}
	return cfg, nil
}
