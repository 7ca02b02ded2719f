package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/augleao/frontend-dev-sub000/internal/core/config"
)

var (
	cfgPath string
	isDebug bool
	appCfg  *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "notaria-ia",
	Short: "Notary-office AI orchestration service",
	Long: `notaria-ia resolves the AI agents configured per notary office, invokes them
through an ordered fallback chain with retries and serves the mandate analysis API.`,
	PersistentPreRun: setup,
	Run:              runServe,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// setup loads .env and the configuration, then installs the logger.
func setup(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	appCfg = cfg

	stylelog.InitDefault(&tint.Options{
		Level:      logLevel(cfg.Logging.Level, isDebug),
		TimeFormat: time.RFC3339,
	})
}

// configPath drops the default path when the file does not exist, so the
// service can run from environment variables alone.
func configPath(cmd *cobra.Command) string {
	if cmd.Flags().Changed("config") {
		return cfgPath
	}
	if _, err := os.Stat(cfgPath); err != nil {
		return ""
	}
	return cfgPath
}

func logLevel(name string, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
