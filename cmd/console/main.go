package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/fading-suns/pkg/i18n"
	"golang.org/x/text/language"
)

type ConsoleConfig struct {
	APIBaseURL string
	Language   string
	Template   string
	Timeout    time.Duration
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Language:   consoleLanguage(),
		Template:   getEnv("CONSOLE_TEMPLATE", "erian_li_halan"),
		Timeout:    30 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}
	api := NewAPIClient(client, cfg.APIBaseURL, cfg.Language)

	if !api.testConnection() {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	l := i18n.New(i18n.Match(cfg.Language, language.English))

	p := tea.NewProgram(NewConsoleUI(cfg, api, l),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// consoleLanguage reads CONSOLE_LANGUAGE, falling back to the POSIX locale
// (fr_FR.UTF-8 becomes fr-FR).
func consoleLanguage() string {
	if lang := os.Getenv("CONSOLE_LANGUAGE"); lang != "" {
		return lang
	}
	lang := os.Getenv("LANG")
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return "en"
	}
	return strings.ReplaceAll(lang, "_", "-")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
