// Package config handles loading, validating, and resolving Prospector configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Prospector configuration loaded from config.yaml.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Directory  DirectoryConfig  `yaml:"directory,omitempty"`
	Compose    ComposeConfig    `yaml:"compose,omitempty"`
	Rendering  RenderingConfig  `yaml:"rendering,omitempty"`
	Apps       AppsConfig       `yaml:"apps,omitempty"`
}

// GenerationConfig defines the AI draft generation endpoints.
type GenerationConfig struct {
	Endpoint string `yaml:"endpoint"`           // primary base URL
	Fallback string `yaml:"fallback,omitempty"` // fixed fallback base URL tried once on failure
	APIKey   string `yaml:"api_key,omitempty"`
	Timeout  int    `yaml:"timeout,omitempty"` // seconds; 0 means default (120)
}

// DirectoryConfig defines the remote contact/account collection source.
// The directory is a document-collection API: Prospector fetches entire
// collections and filters client-side.
type DirectoryConfig struct {
	Endpoint string     `yaml:"endpoint,omitempty"`
	Auth     AuthConfig `yaml:"auth,omitempty"`
	CacheTTL int        `yaml:"cache_ttl,omitempty"` // seconds; 0 disables caching
}

// AuthConfig defines how to authenticate with the directory service.
type AuthConfig struct {
	Method string `yaml:"method,omitempty"` // api_key_header | bearer | none
	Key    string `yaml:"key,omitempty"`
	Header string `yaml:"header,omitempty"` // header name for api_key_header (default: "apikey")
	Token  string `yaml:"token,omitempty"`
}

// ComposeConfig defines compose-session defaults.
type ComposeConfig struct {
	Mode         string `yaml:"mode,omitempty"`          // standard | html
	Style        string `yaml:"style,omitempty"`         // prose style hint sent to the generator
	SubjectStyle string `yaml:"subject_style,omitempty"` // subject style hint sent to the generator
	Logo         string `yaml:"logo,omitempty"`          // image URL embedded in html-mode documents
}

// RenderingConfig defines terminal rendering behavior.
type RenderingConfig struct {
	Images string `yaml:"images,omitempty"` // auto | inline | external | text
}

// AppsConfig names the external applications used for handoff. Empty or
// "default" means the platform opener (open / xdg-open).
type AppsConfig struct {
	Browser string `yaml:"browser,omitempty"`
	Editor  string `yaml:"editor,omitempty"`
	Email   string `yaml:"email,omitempty"`
}

// ProspectorDir returns the path to the Prospector data directory
// (~/.prospector/), creating it if it doesn't exist. Override with the
// PROSPECTOR_DIR env var.
func ProspectorDir() (string, error) {
	dir := os.Getenv("PROSPECTOR_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determining home directory: %w", err)
		}
		dir = filepath.Join(home, ".prospector")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating prospector directory: %w", err)
	}
	return dir, nil
}

// Load reads and parses the config.yaml from the Prospector directory.
func Load(prospectorDir string) (*Config, error) {
	path := filepath.Join(prospectorDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${VAR} references in credential fields from the
// environment. Only auth-related fields are resolved; credentials are
// never stored expanded.
func ResolveEnvVars(cfg *Config) {
	cfg.Generation.APIKey = expandEnv(cfg.Generation.APIKey)
	cfg.Directory.Auth.Key = expandEnv(cfg.Directory.Auth.Key)
	cfg.Directory.Auth.Token = expandEnv(cfg.Directory.Auth.Token)
}

func expandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match // leave unresolved if env var not set
	})
}

// Save marshals the config to YAML and writes it to config.yaml in the
// Prospector directory. Creates the parent directory if it doesn't exist.
func Save(prospectorDir string, cfg *Config) error {
	if err := os.MkdirAll(prospectorDir, 0o755); err != nil {
		return fmt.Errorf("creating prospector directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := "# Prospector configuration — https://github.com/jcadam/prospector\n# Edit this file directly or use: prospect init\n\n"
	path := filepath.Join(prospectorDir, "config.yaml")
	return os.WriteFile(path, []byte(header+string(data)), 0o644)
}

// Validate checks internal consistency of the config.
func Validate(cfg *Config) error {
	if cfg.Generation.Endpoint == "" {
		return fmt.Errorf("generation.endpoint is required")
	}
	if cfg.Generation.Timeout < 0 {
		return fmt.Errorf("generation.timeout must be >= 0")
	}

	switch cfg.Directory.Auth.Method {
	case "api_key_header":
		if cfg.Directory.Auth.Key == "" {
			return fmt.Errorf("directory auth method \"api_key_header\" requires a key")
		}
	case "bearer":
		if cfg.Directory.Auth.Token == "" {
			return fmt.Errorf("directory auth method \"bearer\" requires a token")
		}
	case "none", "":
		// valid — no credentials needed
	default:
		return fmt.Errorf("directory has unknown auth method %q", cfg.Directory.Auth.Method)
	}
	if cfg.Directory.Endpoint == "" && cfg.Directory.Auth.Method != "" && cfg.Directory.Auth.Method != "none" {
		return fmt.Errorf("directory auth configured without an endpoint")
	}
	if cfg.Directory.CacheTTL < 0 {
		return fmt.Errorf("directory.cache_ttl must be >= 0")
	}

	switch cfg.Compose.Mode {
	case "standard", "html", "":
		// valid
	default:
		return fmt.Errorf("invalid compose.mode value %q", cfg.Compose.Mode)
	}

	if cfg.Rendering.Images != "" {
		switch strings.ToLower(cfg.Rendering.Images) {
		case "auto", "inline", "external", "text":
			// valid
		default:
			return fmt.Errorf("invalid rendering.images value %q", cfg.Rendering.Images)
		}
	}

	return nil
}
