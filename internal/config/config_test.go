package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "https://mial.be" {
		t.Fatalf("host = %q", cfg.Host)
	}
	if cfg.LeadEndpoint != "/api/lead" {
		t.Fatalf("lead endpoint = %q", cfg.LeadEndpoint)
	}
}

func TestLoadFileAndEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEST_PORTAL_HOST", "https://staging.mial.be")
	yaml := "host: ${TEST_PORTAL_HOST}\nlead_endpoint: /public/lead\nutm:\n  source: cli\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "https://staging.mial.be" {
		t.Fatalf("host = %q", cfg.Host)
	}
	if cfg.LeadEndpoint != "/public/lead" {
		t.Fatalf("lead endpoint = %q", cfg.LeadEndpoint)
	}
	if cfg.UTM["source"] != "cli" {
		t.Fatalf("utm = %v", cfg.UTM)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("host: https://file.example\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RECAPCTL_HOST", "https://env.example")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Host != "https://env.example" {
		t.Fatalf("host = %q, env should win", cfg.Host)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(":\n\t bad"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}
