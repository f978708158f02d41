package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clinimed/agenda/internal/config"
	"github.com/clinimed/agenda/internal/session"
)

func TestEnvStoreIsReadOnly(t *testing.T) {
	s := envStore{token: "env-token"}

	tok, err := s.Load()
	if err != nil || tok != "env-token" {
		t.Fatalf("Load = %q, %v", tok, err)
	}
	if err := s.Save("other"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if tok, _ := s.Load(); tok != "env-token" {
		t.Errorf("token changed to %q, env value should be immutable", tok)
	}
}

func TestBuildClientPicksStore(t *testing.T) {
	cfg := config.Config{APIURL: "http://localhost:3000", Variant: session.VariantBearer, TokenPath: "/tmp/token"}

	_, store := buildClient(cfg)
	if _, ok := store.(*session.FileStore); !ok {
		t.Errorf("bearer without env token: store = %T, want *session.FileStore", store)
	}

	cfg.Token = "env-token"
	_, store = buildClient(cfg)
	if _, ok := store.(envStore); !ok {
		t.Errorf("bearer with env token: store = %T, want envStore", store)
	}

	cfg.Variant = session.VariantCookie
	_, store = buildClient(cfg)
	if _, ok := store.(*session.MemoryStore); !ok {
		t.Errorf("cookie variant: store = %T, want *session.MemoryStore", store)
	}
}

func TestRunLogout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	// Signing out with nothing stored is fine
	if err := runLogout(path); err != nil {
		t.Fatalf("logout with no token: %v", err)
	}

	if err := os.WriteFile(path, []byte("tok\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := runLogout(path); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file should be gone after logout")
	}
}
