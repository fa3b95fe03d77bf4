package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amellido/triagetui/internal/api"
	"github.com/amellido/triagetui/internal/config"
	"github.com/amellido/triagetui/internal/tui"
	"github.com/amellido/triagetui/internal/version"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/triagetui/config.json)")
	backendFlag := flag.String("backend", "", "Backend base URL (overrides config file)")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Run with default configuration\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --backend http://host:5000/api   # Point at a different backend\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config custom.json             # Use custom configuration\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  TRIAGETUI_CONFIG   Override default config file path\n")
		fmt.Fprintf(os.Stderr, "  TRIAGETUI_BACKEND  Override backend base URL\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	// Optional .env next to the binary; absence is not an error
	_ = godotenv.Load()

	configPath := getConfigPath(*configPathFlag)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load configuration: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if *backendFlag != "" {
		cfg.Backend.URL = *backendFlag
	} else if env := os.Getenv("TRIAGETUI_BACKEND"); env != "" {
		cfg.Backend.URL = env
	}

	logger, logFile := setupLogger(cfg)
	defer func() {
		if logFile != nil {
			_ = logFile.Close()
		}
	}()

	client := api.NewClient(cfg.Backend.URL, cfg.GetBackendTimeout(), logger)

	app := tui.NewApp(cfg, client, logger)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger opens the file-backed zerolog logger. The terminal is owned by
// the TUI, so nothing logs to stdout; a broken log path degrades to a
// discard logger rather than failing startup.
func setupLogger(cfg *config.Config) (zerolog.Logger, *os.File) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(config.DefaultLogDir(), "triagetui.log")
	}
	logPath = expandPath(logPath)

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return zerolog.New(io.Discard), nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.New(io.Discard), nil
	}

	return zerolog.New(f).Level(level).With().Timestamp().Logger(), f
}

// getConfigPath returns the configuration file path using the following priority:
// 1. CLI flag
// 2. Environment variable TRIAGETUI_CONFIG
// 3. Default path ~/.config/triagetui/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envPath := os.Getenv("TRIAGETUI_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}

	return config.DefaultConfigPath()
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	return filepath.Join(home, path[2:])
}
