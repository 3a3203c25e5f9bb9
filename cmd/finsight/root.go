package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/finsight/backend/internal/config"
	"github.com/finsight/backend/internal/logger"
	"github.com/finsight/backend/internal/service"
	"github.com/finsight/backend/internal/store"
)

var (
	flagDB      string
	flagConfig  string
	flagUser    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "finsight",
	Short: "Transaction analytics: recurring patterns, anomalies, forecasts",
	Long: "finsight analyzes a user's transaction history to detect recurring payment\n" +
		"patterns, flag anomalous spending days, and forecast the next 30 days.",
	SilenceUsage: true,
}

func init() {
	homeDir, _ := os.UserHomeDir()
	defaultDB := filepath.Join(homeDir, ".finsight", "finsight.db")

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", defaultDB, "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "TOML config file with analysis tunables")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "local", "User to analyze")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// newService is the shared wiring path used by all commands. The caller
// must invoke the returned cleanup function.
func newService() (*service.AnalysisService, store.Store, func(), error) {
	log := newLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, err
	}

	st, err := store.OpenSQLite(flagDB)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}

	return service.NewAnalysisService(st, log, cfg.Analysis), st, cleanup, nil
}

func newLogger() zerolog.Logger {
	return logger.New(flagVerbose)
}

// today is the reference date every command injects into the core.
func today() time.Time {
	return time.Now().UTC()
}
