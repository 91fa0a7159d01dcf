package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"meo/internal/core"
	"meo/internal/storage/config"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// ErrCancelled is returned when the user declines a confirmation prompt.
// When returned from a command, Execute exits with code 2.
var ErrCancelled = errors.New("cancelled")

var (
	version = "0.4.0"

	// Global flags
	configDir  string
	dataDir    string
	gameName   string
	verbose    bool
	jsonOutput bool
	noColor    bool
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meo",
	Short: "Mod Engine Organizer - manage mods for Mod Engine 2 games",
	Long: `meo manages the mod folders and external DLLs loaded by Mod Engine 2.

It keeps the loader's config_<game>.toml in sync with the mod folders on disk,
reports files that more than one enabled mod overrides, and edits the DLL
load order. Run 'meo tui' for the interactive interface.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/meo)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.local/share/meo)")
	rootCmd.PersistentFlags().StringVarP(&gameName, "game", "g", "", "game profile to operate on (default: current game)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list commands, conflicts, history)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: from config.yaml)")
}

// colorEnabled respects --no-color and the NO_COLOR environment variable
func colorEnabled() bool {
	if noColor {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

func colorGreen(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiGreen + s + ansiReset
}

func colorRed(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiRed + s + ansiReset
}

func colorYellow(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiYellow + s + ansiReset
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = user cancelled.
// When --json is set and an error occurs, prints {"error":"..."} to stdout before exiting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			os.Exit(2)
		}
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// initService creates the config and data directories and opens the service
func initService() (*core.Service, error) {
	cfg, err := getServiceConfig()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	return core.NewService(cfg)
}

// getServiceConfig returns the service configuration with defaults applied
func getServiceConfig() (core.ServiceConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return core.ServiceConfig{}, fmt.Errorf("home directory: %w", err)
	}

	cfg := core.ServiceConfig{
		ConfigDir: configDir,
		DataDir:   dataDir,
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = filepath.Join(homeDir, ".config", "meo")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(homeDir, ".local", "share", "meo")
	}

	level := logLevel
	if level == "" {
		if appConfig, err := config.Load(cfg.ConfigDir); err == nil {
			level = appConfig.LogLevel
		}
	}
	logger, err := newLogger(os.Stderr, level)
	if err != nil {
		return core.ServiceConfig{}, err
	}
	cfg.Logger = logger

	return cfg, nil
}

// newLogger builds the process logger. --verbose always wins over the
// configured level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "meo",
		Level:  lvl,
	}), nil
}

// openSession opens the --game profile, or the current game
func openSession(svc *core.Service) (*core.Session, error) {
	session, err := svc.Open(gameName)
	if err != nil {
		if gameName == "" {
			return nil, fmt.Errorf("no game selected; add one with 'meo game add <name> <config-path>': %w", err)
		}
		return nil, err
	}
	return session, nil
}

// printJSON writes v as indented JSON to the command's output
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
