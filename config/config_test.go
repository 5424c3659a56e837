package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const sample = `
app_name: shop
host: 127.0.0.1
port: 9000
logger:
  level: 5
  format: json
  output: stderr
data:
  database:
    master:
      driver: postgres
      source: postgres://localhost/shop
  meilisearch:
    host: http://localhost:7700
    index: products
  elasticsearch:
    addresses: [http://localhost:9200]
    index: products
paging:
  items_per_page: 20
  max_hits: 500
  hosted_engine: opensearch
`

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.AppName != "shop" || cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("server = %q %q", cfg.AppName, cfg.Addr())
	}
	if cfg.Logger.Level != 5 || cfg.Logger.Format != "json" || cfg.Logger.Output != "stderr" {
		t.Errorf("logger = %+v", cfg.Logger)
	}
	if cfg.Data.Database.Master.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.Data.Database.Master.Driver)
	}
	if cfg.Data.Search.Meilisearch.Host != "http://localhost:7700" {
		t.Errorf("meilisearch host = %q", cfg.Data.Search.Meilisearch.Host)
	}
	want := Paging{ItemsPerPage: 20, MaxHits: 500, HostedEngine: "opensearch"}
	if *cfg.Paging != want {
		t.Errorf("paging = %+v, want %+v", *cfg.Paging, want)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app_name: shop\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 8080 || cfg.Host != "0.0.0.0" {
		t.Errorf("addr = %s", cfg.Addr())
	}
	want := Paging{ItemsPerPage: DefaultItemsPerPage, MaxHits: DefaultMaxHits, HostedEngine: DefaultHostedEngine}
	if *cfg.Paging != want {
		t.Errorf("paging = %+v, want %+v", *cfg.Paging, want)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PAGER_PORT", "7070")
	t.Setenv("PAGER_PAGING_ITEMS_PER_PAGE", "0")

	cfg, err := LoadConfig(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Port)
	}
	if cfg.Paging.ItemsPerPage != 0 {
		t.Errorf("items_per_page = %d, want 0", cfg.Paging.ItemsPerPage)
	}
}

func TestConfigPathFromEnvironment(t *testing.T) {
	t.Setenv(EnvConfigPath, writeConfig(t, sample))

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AppName != "shop" {
		t.Errorf("app_name = %q", cfg.AppName)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown engine", "paging:\n  hosted_engine: solr\n", "HostedEngine"},
		{"negative page size", "paging:\n  items_per_page: -1\n", "ItemsPerPage"},
		{"zero max hits", "paging:\n  max_hits: 0\n", "MaxHits"},
		{"port out of range", "port: 70000\n", "Port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
