package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/fittrack/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is a DTO used only for decoding config files. Pointers tell
// absent keys apart from zero values.
type fileConfig struct {
	ServerURL        *string         `json:"server_url" yaml:"server_url"`
	DBPath           *string         `json:"db_path" yaml:"db_path"`
	Ephemeral        *bool           `json:"ephemeral" yaml:"ephemeral"`
	CredentialSecret *string         `json:"credential_secret" yaml:"credential_secret"`
	RequestTimeout   *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel         *string         `json:"log_level" yaml:"log_level"`
	LogBackend       *string         `json:"log_backend" yaml:"log_backend"`
	OTLPEndpoint     *string         `json:"otlp_endpoint" yaml:"otlp_endpoint"`
	MetricsAddr      *string         `json:"metrics_addr" yaml:"metrics_addr"`
	ServiceName      *string         `json:"service_name" yaml:"service_name"`
}

// LoadFile overlays cfg with the keys present in the file at path.
// Files ending in .yaml or .yml are YAML, everything else is JSON.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.CredentialSecret, fc.CredentialSecret)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogBackend, fc.LogBackend)
	setString(&cfg.OTLPEndpoint, fc.OTLPEndpoint)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	setString(&cfg.ServiceName, fc.ServiceName)
	if fc.Ephemeral != nil {
		cfg.Ephemeral = *fc.Ephemeral
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
