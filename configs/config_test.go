package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const baseYAML = `
app:
  name: storefront
  http_addr: ":8080"
  log_file: "./logs/app.log"
backend:
  base_url: "http://localhost:8000/api"
  timeout: 10s
redis:
  addr: "localhost:6379"
payment:
  delay: 3s
  success_rate: 0.9
  window: 120s
security:
  jwt_secret: "secret"
`

func writeConfigs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadBase(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})

	cfg, err := Load(dir, "dev")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTPAddr != ":8080" {
		t.Fatalf("http_addr = %q", cfg.App.HTTPAddr)
	}
	if cfg.Payment.Delay != 3*time.Second || cfg.Payment.Window != 120*time.Second {
		t.Fatalf("payment: %+v", cfg.Payment)
	}
	if cfg.Payment.SuccessRate != 0.9 {
		t.Fatalf("success_rate = %v", cfg.Payment.SuccessRate)
	}
}

func TestLoadEnvFileOverridesBase(t *testing.T) {
	dir := writeConfigs(t, map[string]string{
		"base.yaml": baseYAML,
		"prod.yaml": "app:\n  http_addr: \":80\"\n",
	})

	cfg, err := Load(dir, "prod")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.HTTPAddr != ":80" {
		t.Fatalf("http_addr = %q, want prod override", cfg.App.HTTPAddr)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("base fields must survive the overlay, got %q", cfg.Backend.BaseURL)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})
	t.Setenv("STOREFRONT_BACKEND__BASE_URL", "http://backend:9000/api")
	t.Setenv("STOREFRONT_REDIS__PASSWORD", "hunter2")

	cfg, err := Load(dir, "dev")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend:9000/api" {
		t.Fatalf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Redis.Password != "hunter2" {
		t.Fatalf("redis password = %q", cfg.Redis.Password)
	}
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})

	if _, err := Load(dir, "nonexistent"); err != nil {
		t.Fatalf("missing env yaml must not fail: %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})
	good, err := Load(dir, "dev")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing http_addr", func(c *Config) { c.App.HTTPAddr = "" }},
		{"missing backend url", func(c *Config) { c.Backend.BaseURL = "" }},
		{"missing redis addr", func(c *Config) { c.Redis.Addr = "" }},
		{"missing jwt secret", func(c *Config) { c.Security.JWTSecret = "" }},
		{"success rate above 1", func(c *Config) { c.Payment.SuccessRate = 1.5 }},
		{"negative success rate", func(c *Config) { c.Payment.SuccessRate = -0.1 }},
	}
	for _, tc := range cases {
		cfg := good
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
