// Package config loads recapctl configuration from config.yaml and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds client settings.
type Config struct {
	// Host targets a remote portal (e.g. "https://mial.be"). Empty means
	// same-origin relative paths, which only make sense behind a proxy.
	Host string

	// LeadEndpoint is the lead-capture path, which varies by deployment
	// (/public/lead vs /api/lead).
	LeadEndpoint string

	// StateDir holds the local database, consent record, session token
	// and session id.
	StateDir string

	// UTM tags attached to outbound telemetry and lead submissions.
	UTM map[string]string
}

type rawConfig struct {
	Host         string            `yaml:"host"`
	LeadEndpoint string            `yaml:"lead_endpoint"`
	UTM          map[string]string `yaml:"utm"`
}

// DefaultStateDir returns the per-user state directory.
func DefaultStateDir() string {
	if dir := os.Getenv("RECAPCTL_STATE_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return ".recapctl"
	}
	return filepath.Join(base, "recapctl")
}

// Load reads config.yaml from the state dir (with ${VAR} expansion) and
// applies environment overrides. A missing file yields defaults.
func Load(stateDir string) (*Config, error) {
	if stateDir == "" {
		stateDir = DefaultStateDir()
	}
	cfg := &Config{
		Host:         "https://mial.be",
		LeadEndpoint: "/api/lead",
		StateDir:     stateDir,
	}

	path := filepath.Join(stateDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		expanded := os.ExpandEnv(string(data))
		var raw rawConfig
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if raw.Host != "" {
			cfg.Host = raw.Host
		}
		if raw.LeadEndpoint != "" {
			cfg.LeadEndpoint = raw.LeadEndpoint
		}
		cfg.UTM = raw.UTM
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if host := os.Getenv("RECAPCTL_HOST"); host != "" {
		cfg.Host = host
	}
	if ep := os.Getenv("RECAPCTL_LEAD_ENDPOINT"); ep != "" {
		cfg.LeadEndpoint = ep
	}
	return cfg, nil
}
