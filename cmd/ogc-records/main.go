// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ogc-records CLI. It turns MCF
// documents into OGC API Records feature records and keeps a local catalog
// of the records it produced.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the ogc-records CLI.
var rootCmd = &cobra.Command{
	Use:   "ogc-records",
	Short: "Generate OGC API Records feature records from MCF metadata",
	Long: `ogc-records reads metadata content model (MCF) documents and writes
OGC API - Records Part 1 feature records: a GeoJSON polygon built from the
dataset bounding box, record properties with spatial and temporal extents,
and a root link to the record document.

Generated records can be stored in a local SQLite catalog and queried by
id, bounding box or text.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ogc-records.yaml or ~/.config/ogc-records/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("catalog-dir", "catalog", "directory holding the record catalog database")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("catalog.dir", rootCmd.PersistentFlags().Lookup("catalog-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ogc-records")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ogc-records"))
		}
	}

	viper.SetEnvPrefix("OGC_RECORDS")
	viper.AutomaticEnv()

	readErr := viper.ReadInConfig()

	level := viper.GetString("log_level")
	if err := setupLogging(level); err != nil {
		setupLogging(zerolog.LevelInfoValue)
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
	if readErr == nil {
		log.Debug().Str("path", viper.ConfigFileUsed()).Msg("using config file")
	}
}

// setupLogging points the global zerolog logger at stderr.
func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
