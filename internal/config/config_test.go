package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:    HTTPConfig{Port: 8080},
		Dataset: DatasetConfig{Name: "incunabula", ImageDir: "/data/images"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too big", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"no images", func(c *Config) { c.Dataset.ImageDir = "" }, "is required"},
		{"both image sources", func(c *Config) { c.Dataset.ImageList = "list.txt" }, "mutually exclusive"},
		{"dataset name with colon", func(c *Config) { c.Dataset.Name = "a:b" }, "dataset.name"},
		{"catalog url without verb", func(c *Config) { c.Render.CatalogURL = "https://example.org/istc" }, "render.catalog_url"},
		{"cache without addrs", func(c *Config) { c.Cache.Enabled = true }, "cache.addrs"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Dataset.Name != "default" {
		t.Errorf("expected dataset name 'default', got %q", cfg.Dataset.Name)
	}
	if cfg.Sources.Catalog.KeyColumn != "id" {
		t.Errorf("expected catalog key column 'id', got %q", cfg.Sources.Catalog.KeyColumn)
	}
	if cfg.Sources.FileAttributes.KeyColumn != "filename" || cfg.Sources.Regions.KeyColumn != "filename" {
		t.Errorf("unexpected filename key columns: %+v", cfg.Sources)
	}
	if cfg.Render.ThumbnailHeight != 500 {
		t.Errorf("expected ThumbnailHeight=500, got %d", cfg.Render.ThumbnailHeight)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Dataset: DatasetConfig{Name: "custom"},
		Sources: SourcesConfig{Catalog: SourceConfig{KeyColumn: "istc_id"}},
		Cache:   CacheConfig{TTLSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Dataset.Name != "custom" {
		t.Errorf("expected dataset name 'custom', got %q", cfg.Dataset.Name)
	}
	if cfg.Sources.Catalog.KeyColumn != "istc_id" {
		t.Errorf("expected key column 'istc_id', got %q", cfg.Sources.Catalog.KeyColumn)
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("expected TTLSec=60, got %d", cfg.Cache.TTLSec)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("FOLIO_TEST_IMAGES", "/srv/images")

	cfg, err := Parse([]byte(`
http:
  port: ${FOLIO_TEST_PORT:-9000}
dataset:
  name: incunabula
  image_dir: ${FOLIO_TEST_IMAGES}
sources:
  catalog:
    path: ${FOLIO_TEST_CATALOG:-}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected default port 9000, got %d", cfg.HTTP.Port)
	}
	if cfg.Dataset.ImageDir != "/srv/images" {
		t.Errorf("expected image dir from env, got %q", cfg.Dataset.ImageDir)
	}
	if cfg.Sources.Catalog.Enabled() {
		t.Error("catalog source should be disabled when path is empty")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error for missing dataset")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	content := "http:\n  port: 8081\ndataset:\n  image_list: files.txt\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8081 || cfg.Dataset.ImageList != "files.txt" {
		t.Errorf("unexpected config: %+v", cfg)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}
