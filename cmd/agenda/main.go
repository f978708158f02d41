package main

import (
	"fmt"
	"net/http/cookiejar"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clinimed/agenda/internal/config"
	"github.com/clinimed/agenda/internal/session"
	"github.com/clinimed/agenda/internal/tui"
	"github.com/clinimed/agenda/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("agenda " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout(cfg.TokenPath)
		}
	}

	api, store := buildClient(cfg)
	mgr := session.New(api, store, cfg.Variant)

	p := tea.NewProgram(tui.NewApp(api, mgr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// buildClient assembles the API client and token store for the
// configured credential variant. Cookie deployments carry the session
// in a jar and never persist anything locally.
func buildClient(cfg config.Config) (*client.Client, session.TokenStore) {
	if cfg.Variant == session.VariantCookie {
		jar, _ := cookiejar.New(nil) //nolint:errcheck // only fails on a nil PublicSuffixList option
		return client.New(cfg.APIURL, client.WithCookieJar(jar)), &session.MemoryStore{}
	}

	// AGENDA_TOKEN wins over the stored token for this run.
	if cfg.Token != "" {
		return client.New(cfg.APIURL), envStore{token: cfg.Token}
	}
	return client.New(cfg.APIURL), session.NewFileStore(cfg.TokenPath)
}

// envStore serves a token handed in through the environment. Saves are
// dropped so a one-off run never clobbers the stored credential, and
// Clear is a no-op because the environment owns the value.
type envStore struct {
	token string
}

func (s envStore) Load() (string, error) { return s.token, nil }
func (s envStore) Save(string) error     { return nil }
func (s envStore) Clear() error          { return nil }

func runLogout(tokenPath string) error {
	if _, err := os.Stat(tokenPath); os.IsNotExist(err) {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := os.Remove(tokenPath); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}
