// Package config loads the site configuration a migration run operates on.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/rapyd-cloud/wpmigrate/pkg/rewrite"
)

// DefaultPath is where commands look for the site config when no --config
// flag is given.
const DefaultPath = ".wpmigrate.yaml"

// Database holds the site database credentials. Values are handed to the
// mysql tools directly and never logged.
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// TokenPair is an old/new value pair for one rewrite concern.
type TokenPair struct {
	Old string `yaml:"old,omitempty"`
	New string `yaml:"new,omitempty"`
}

// Rewrite tunes the file scan.
type Rewrite struct {
	FileFilters    []string `yaml:"file_filters,omitempty"`
	ExcludeFilters []string `yaml:"exclude_filters,omitempty"`
	MaxDepth       int      `yaml:"max_depth,omitempty"`
}

// Config is the complete site configuration.
type Config struct {
	Webroot   string    `yaml:"webroot"`
	BackupDir string    `yaml:"backup_dir,omitempty"`
	Database  Database  `yaml:"database,omitempty"`
	Domains   TokenPair `yaml:"domains,omitempty"`
	Paths     TokenPair `yaml:"paths,omitempty"`
	Rewrite   Rewrite   `yaml:"rewrite,omitempty"`

	// Binary overrides, for hosts with relocated tooling.
	WPCLIBin    string `yaml:"wp_cli_bin,omitempty"`
	PlatformBin string `yaml:"platform_bin,omitempty"`
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path if it exists, otherwise returns a defaulted
// empty config so purely flag-driven commands work without a config file.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, errors.Errorf("checking config file: %w", err)
	}
	return Load(path)
}

// Validate checks required fields and fills in defaults.
func (cfg *Config) Validate() error {
	if cfg.Webroot == "" {
		return errors.Errorf("webroot is required")
	}
	cfg.Webroot = filepath.Clean(cfg.Webroot)

	if cfg.Database.Host != "" {
		if cfg.Database.User == "" {
			return errors.Errorf("database.user is required when database.host is set")
		}
		if cfg.Database.Name == "" {
			return errors.Errorf("database.name is required when database.host is set")
		}
	}

	cfg.applyDefaults()
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.BackupDir == "" && cfg.Webroot != "" {
		cfg.BackupDir = filepath.Join(filepath.Dir(cfg.Webroot), "wpmigrate-backups")
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 3306
	}
	if len(cfg.Rewrite.FileFilters) == 0 {
		cfg.Rewrite.FileFilters = rewrite.DefaultFileFilters
	}
	if len(cfg.Rewrite.ExcludeFilters) == 0 {
		cfg.Rewrite.ExcludeFilters = rewrite.DefaultExcludeFilters
	}
	if cfg.Rewrite.MaxDepth == 0 {
		cfg.Rewrite.MaxDepth = rewrite.DefaultMaxDepth
	}
	if cfg.WPCLIBin == "" {
		cfg.WPCLIBin = "wp"
	}
	if cfg.PlatformBin == "" {
		cfg.PlatformBin = "rapyd"
	}
}

// String summarizes the config for log output, without credentials.
func (cfg *Config) String() string {
	return fmt.Sprintf("webroot=%s db=%s@%s:%d/%s", cfg.Webroot,
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
}
