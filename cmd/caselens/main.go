// Package main is the entry point for the caselens server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/caselens/internal/config"
	logpkg "github.com/kailas-cloud/caselens/internal/logger"
)

var (
	configPath string
	envName    string
)

var rootCmd = &cobra.Command{
	Use:   "caselens",
	Short: "Case and document research over a remote search backend",
	Long: `caselens fronts a case search backend. It caches one batch of results per
query and serves document type filtering, paging, AI answers, case lookup and
signed document links.

Run "caselens serve" for the HTTP API, or use search and case from a terminal.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "",
		"environment: local, dev, docker, prod (default: $ENV or local)")
}

// loadConfig reads the --config file when given, else the file for the environment.
func loadConfig() (config.Config, string, error) {
	env := envName
	if env == "" {
		env = config.GetEnv()
	}
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, "", fmt.Errorf("load config: %w", err)
	}
	return cfg, env, nil
}

func newLogger(cfg config.Config, env string) (*zap.Logger, error) {
	var sink *logpkg.FileSink
	if cfg.Logging.File != "" {
		sink = &logpkg.FileSink{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		}
	}
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, sink)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
