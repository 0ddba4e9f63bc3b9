// Package cli implements the motifbpe CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/motifbpe/internal/config"
	"github.com/rcliao/motifbpe/internal/store"
)

var (
	dbPath     string
	configPath string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "motifbpe",
	Short: "Motif-aware BPE vocabularies for biological sequences",
	Long:  "Learn subword vocabularies for DNA, RNA and protein corpora that keep known motifs intact. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MOTIFBPE_DB or ~/.motifbpe/motifbpe.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config path (default: $MOTIFBPE_CONFIG or ~/.motifbpe/config.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every merge round")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("MOTIFBPE_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".motifbpe", "motifbpe.db")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("MOTIFBPE_CONFIG"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".motifbpe", "config.yaml")
}

// configSource reads the config file when one exists. An explicitly named
// file must exist; otherwise the defaults apply.
func configSource() (config.Source, bool) {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil {
		return config.FileSource{Path: path}, true
	} else if configPath != "" || os.Getenv("MOTIFBPE_CONFIG") != "" {
		exitErr("config", err)
	}
	return config.Static(config.Default()), false
}

func loadConfig() config.Config {
	src, _ := configSource()
	cfg, err := src.Load()
	if err != nil {
		exitErr("config", err)
	}
	return cfg
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func warnf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warn: "+format+"\n", args...)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
