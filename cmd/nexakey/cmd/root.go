package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is the CLI version, overridden at build time with -ldflags.
var Version = "dev"

var (
	serverURL string
	dataDir   string
)

var rootCmd = &cobra.Command{
	Use:     "nexakey",
	Short:   "NexaKey is a zero-knowledge password manager client",
	Version: Version,
	Long: `A command-line client for the NexaKey password manager. Vault items are
encrypted locally with a key derived from your master secret; the server
only ever sees ciphertext.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// A .env in the working directory can supply NEXAKEY_SERVER and
	// NEXAKEY_DATA_DIR; flags still win.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("NEXAKEY_SERVER", "http://localhost:8000"), "Account service base URL")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", envOr("NEXAKEY_DATA_DIR", defaultDataDir()), "Directory for local secure storage")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nexakey"
	}
	return filepath.Join(home, ".nexakey")
}

func storePath() (string, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return filepath.Join(dataDir, "store.db"), nil
}
