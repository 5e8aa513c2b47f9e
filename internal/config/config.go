package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the folio service configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Dataset DatasetConfig `yaml:"dataset"`
	Sources SourcesConfig `yaml:"sources"`
	Render  RenderConfig  `yaml:"render"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatasetConfig describes the page images. Exactly one of ImageDir and
// ImageList must be set; docIDs follow the order of the resulting list.
type DatasetConfig struct {
	Name       string   `yaml:"name"`
	ImageDir   string   `yaml:"image_dir"`
	ImageList  string   `yaml:"image_list"`
	Extensions []string `yaml:"extensions"`
}

// SourceConfig is one optional CSV input. An empty Path disables it.
type SourceConfig struct {
	Path      string `yaml:"path"`
	KeyColumn string `yaml:"key_column"`
}

// Enabled reports whether the source is configured.
func (s SourceConfig) Enabled() bool { return s.Path != "" }

// SourcesConfig holds the tabular inputs.
type SourcesConfig struct {
	FileAttributes SourceConfig `yaml:"file_attributes"`
	Catalog        SourceConfig `yaml:"catalog"`
	Regions        SourceConfig `yaml:"regions"`
}

// RenderConfig holds the links emitted into HTML fragments.
type RenderConfig struct {
	CatalogURL      string `yaml:"catalog_url"`
	ImageEndpoint   string `yaml:"image_endpoint"`
	SearchEndpoint  string `yaml:"search_endpoint"`
	PageEndpoint    string `yaml:"page_endpoint"`
	ThumbnailHeight int    `yaml:"thumbnail_height"`
}

// CacheConfig holds the optional rendered-page cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Dataset.Name == "" {
		c.Dataset.Name = "default"
	}
	if c.Sources.FileAttributes.KeyColumn == "" {
		c.Sources.FileAttributes.KeyColumn = "filename"
	}
	if c.Sources.Catalog.KeyColumn == "" {
		c.Sources.Catalog.KeyColumn = "id"
	}
	if c.Sources.Regions.KeyColumn == "" {
		c.Sources.Regions.KeyColumn = "filename"
	}
	if c.Render.ThumbnailHeight <= 0 {
		c.Render.ThumbnailHeight = 500
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch {
	case c.Dataset.ImageDir == "" && c.Dataset.ImageList == "":
		return fmt.Errorf("dataset.image_dir or dataset.image_list is required")
	case c.Dataset.ImageDir != "" && c.Dataset.ImageList != "":
		return fmt.Errorf("dataset.image_dir and dataset.image_list are mutually exclusive")
	}
	if strings.ContainsAny(c.Dataset.Name, ":*?[] ") {
		return fmt.Errorf("dataset.name must not contain separators or glob characters, got %q", c.Dataset.Name)
	}
	if c.Render.CatalogURL != "" && strings.Count(c.Render.CatalogURL, "%s") != 1 {
		return fmt.Errorf("render.catalog_url must contain exactly one %%s, got %q", c.Render.CatalogURL)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
