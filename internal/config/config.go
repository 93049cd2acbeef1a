package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spf13/viper"

	"github.com/NEXN0/cirrus/internal/constants"
)

// BlobConfig holds the settings for the S3-compatible attachment store.
type BlobConfig struct {
	Bucket        string `yaml:"bucket"          json:"bucket"`
	Region        string `yaml:"region"          json:"region"`
	Endpoint      string `yaml:"endpoint"        json:"endpoint"`
	PublicBaseURL string `yaml:"public_base_url" json:"public_base_url"`
	ForcePathMode bool   `yaml:"force_path_mode" json:"force_path_mode"`
}

type Config struct {
	Endpoint  string     `yaml:"endpoint"  json:"endpoint"`
	Namespace string     `yaml:"namespace" json:"namespace"`
	Database  string     `yaml:"database"  json:"database"`
	Access    string     `yaml:"access"    json:"access"`
	Token     string     `yaml:"token"     json:"token"`
	Blob      BlobConfig `yaml:"blob"      json:"blob"`
	LogFile   string     `yaml:"log_file"  json:"log_file"`
	ExportDir string     `yaml:"export_dir" json:"export_dir"`

	path string `yaml:"-" json:"-"`
}

func newConfig(home string) *Config {
	return &Config{
		Endpoint:  constants.DefaultEndpoint,
		Namespace: constants.DefaultNamespace,
		Database:  constants.DefaultDatabase,
		Access:    constants.DefaultAccess,
		ExportDir: constants.DefaultExportDir,
		path:      GetConfigPath(home),
	}
}

func (cfg *Config) ensureDefaults() {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = constants.DefaultEndpoint
	}
	if strings.TrimSpace(cfg.Namespace) == "" {
		cfg.Namespace = constants.DefaultNamespace
	}
	if strings.TrimSpace(cfg.Database) == "" {
		cfg.Database = constants.DefaultDatabase
	}
	if strings.TrimSpace(cfg.Access) == "" {
		cfg.Access = constants.DefaultAccess
	}
	if strings.TrimSpace(cfg.ExportDir) == "" {
		cfg.ExportDir = constants.DefaultExportDir
	}
}

// Load reads the YAML config under the home directory, filling in defaults
// for anything unset. Values already bound into viper (flags, env) win over
// the file.
func Load(home string) (*Config, error) {
	cfg := newConfig(home)

	data, err := os.ReadFile(cfg.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()
	syncWithViper(cfg)

	return cfg, nil
}

func syncWithViper(cfg *Config) {
	if v := viper.GetString("endpoint"); v != "" {
		cfg.Endpoint = v
	}
	if v := viper.GetString("namespace"); v != "" {
		cfg.Namespace = v
	}
	if v := viper.GetString("database"); v != "" {
		cfg.Database = v
	}
}

func (cfg *Config) GetConfigPath() string {
	return cfg.path
}

// ChangeToken persists the session token so later invocations can resume the
// authenticated session without prompting.
func (cfg *Config) ChangeToken(token string) error {
	cfg.Token = token
	return cfg.Save()
}

func (cfg *Config) Save() error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfg.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
