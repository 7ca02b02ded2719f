package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/augleao/frontend-dev-sub000/internal/core/config"
	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
)

func memoryConfig(t *testing.T, stub bool) config.AppConfig {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Database.URL = ""
	cfg.Redis.URL = ""
	cfg.AI.Stub = stub
	return *cfg
}

func TestNewApp_MemoryMode(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(t, true))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer app.jobs.Close()

	if len(app.Offices()) != 1 {
		t.Errorf("Expected one memory office store, got %d", len(app.Offices()))
	}
	if app.Catalog().TTL() != app.cfg.AI.CatalogTTL {
		t.Errorf("Catalog TTL not wired: %v", app.Catalog().TTL())
	}

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ia/health", nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["provider"] != "gemini" || body["stub"] != true {
		t.Errorf("Unexpected health body %v", body)
	}
}

func TestNewApp_ResolvesSeededOffice(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(t, true))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer app.jobs.Close()

	if err := app.Offices()[0].UpsertAgents(context.Background(), &domain.Office{
		Code: "1", Name: "Cartório", PrimaryModel: "gemini-2.0-flash",
	}); err != nil {
		t.Fatalf("UpsertAgents failed: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ia/agentes?serventia=cartório", nil)
	app.Handler().ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "gemini-2.0-flash") {
		t.Errorf("Expected seeded agent in response, got %s", rec.Body.String())
	}
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := memoryConfig(t, false)
	cfg.AI.Backend = "claude"
	if _, err := NewApp(context.Background(), cfg); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestNewApp_MemoryJobsArePruned(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig(t, true))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer app.Close()

	if app.pruner == nil {
		t.Fatal("Expected a job pruner for the in-memory job store")
	}
}
