package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/logging"
)

// Config holds runtime settings for the fittrack client.
//
// Fields:
//   - ServerURL: base URL of the fitness API, including the /api prefix.
//   - DBPath: SQLite file holding the credential record.
//   - Ephemeral: keep the credential in memory only.
//   - CredentialSecret: when set, credential values are encrypted at rest.
//   - RequestTimeout: per-call transport timeout.
//   - OTLPEndpoint: trace collector; tracing is off when empty.
//   - MetricsAddr: host:port serving /metrics; disabled when empty.
type Config struct {
	ServerURL        string
	DBPath           string
	Ephemeral        bool
	CredentialSecret string
	RequestTimeout   time.Duration
	LogLevel         string
	LogBackend       string
	OTLPEndpoint     string
	MetricsAddr      string
	ServiceName      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3000/api"
	c.DBPath = "fittrack.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.LogBackend = logging.BackendSlog
	c.ServiceName = "fittrack-client"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.ServerURL)
	}
	if !c.Ephemeral && c.DBPath == "" {
		return errors.New("db path is required unless ephemeral")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("negative request timeout %s", c.RequestTimeout)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogBackend {
	case logging.BackendSlog, logging.BackendZap:
	default:
		return fmt.Errorf("unknown log backend %q", c.LogBackend)
	}
	return nil
}

// LoadConfig builds a Config from defaults overlaid with path, if not empty.
// Flags are applied by the caller afterwards.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path == "" {
		return cfg, nil
	}
	if err := LoadFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
