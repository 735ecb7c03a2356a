package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/foyer/internal/config"
	"github.com/mmcdole/foyer/internal/jellyfin"
	"github.com/mmcdole/foyer/internal/jellyseerr"
	"github.com/mmcdole/foyer/internal/log"
	"github.com/mmcdole/foyer/internal/service"
	"github.com/mmcdole/foyer/internal/store"
	"github.com/mmcdole/foyer/internal/tui"
	"github.com/mmcdole/foyer/internal/tui/styles"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting foyer")

	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	styles.SetAccent(cfg.UI.Accent)

	catalog := jellyfin.NewClient(cfg.Catalog.URL, cfg.Catalog.APIKey, logger)
	requests := jellyseerr.NewClient(cfg.Requests.URL, cfg.Requests.APIKey, logger)

	cache, err := store.NewSectionStore(config.DefaultCachePath(), cfg.Catalog.URL)
	if err != nil {
		logger.Warn("cache unavailable, running memory-only", "error", err)
		cache, _ = store.NewSectionStore("", "")
	}
	defer cache.Close()

	librarySvc := service.NewLibraryService(catalog, requests, cache, cfg.Features.RequestsEnabled, logger)
	sessionSvc := service.NewSessionService(catalog, cfg.Device.Target, logger)
	searchSvc := service.NewSearchService(requests, logger)

	model := tui.NewModel(cfg, librarySvc, sessionSvc, searchSvc, catalog, requests)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow collects the connection settings on first run
func runSetupFlow(cfg *config.Config) error {
	fmt.Println("Welcome to Foyer!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	if cfg.Catalog.URL == "" {
		cfg.Catalog.URL = prompt(reader, "Media server URL (e.g., http://192.168.1.100:8096): ")
	}
	if cfg.Catalog.APIKey == "" {
		key, err := promptSecret("Media server API key: ")
		if err != nil {
			return err
		}
		cfg.Catalog.APIKey = key
	}

	fmt.Println()
	enable := prompt(reader, "Enable media requests? [y/N]: ")
	cfg.Features.RequestsEnabled = strings.EqualFold(enable, "y")
	if cfg.Features.RequestsEnabled {
		cfg.Requests.URL = prompt(reader, "Request server URL (e.g., http://192.168.1.100:5055): ")
		key, err := promptSecret("Request server API key: ")
		if err != nil {
			return err
		}
		cfg.Requests.APIKey = key
	}

	fmt.Println()
	cfg.Device.Target = prompt(reader, "Playback device name or id (can be changed later in settings): ")

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptSecret(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
