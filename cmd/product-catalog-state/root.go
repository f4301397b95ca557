package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/product-catalog-state/internal/config"
	"github.com/fairyhunter13/product-catalog-state/internal/obs"
)

const serviceName = "product-catalog-state"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	flagEnvFile string
	flagAddr    string
)

var rootCmd = &cobra.Command{
	Use:           serviceName,
	Short:         "Reactive product catalog state served over HTTP",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "", "listen address (overrides CATALOG_HTTP_ADDR)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backendCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the dotenv file, if present, then the environment.
func loadConfig() (*config.Config, error) {
	if flagEnvFile != "" {
		if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagAddr != "" {
		cfg.HTTPAddr = flagAddr
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, component string) *obs.Logger {
	return obs.NewLogger(obs.Options{
		ServiceName: serviceName + component,
		Level:       obs.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
}
